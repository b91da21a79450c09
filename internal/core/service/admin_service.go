package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/ports"
)

// AdminService implements the administrator operations: creating and
// modifying users of any role.
type AdminService struct {
	users    ports.UserRepository
	accounts ports.AccountRepository
}

func NewAdminService(users ports.UserRepository, accounts ports.AccountRepository) *AdminService {
	return &AdminService{users: users, accounts: accounts}
}

// AddUser allocates an id in the role's reserved range and creates the user.
// Customers additionally get a zero-balance account.
func (s *AdminService) AddUser(name, password string, role domain.Role) (int, error) {
	if !role.Valid() {
		return 0, domain.ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	id, err := s.users.Create(&domain.User{
		Role:         role,
		Name:         name,
		PasswordHash: string(hash),
		Active:       true,
	})
	if err != nil {
		return 0, err
	}
	if role == domain.RoleCustomer {
		if err := s.accounts.Create(&domain.Account{AccountID: id, CustomerID: id}); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// ModifyUser rewrites a user's mutable fields. An empty password keeps the
// stored hash; a non-empty one is rehashed. The username stays the decimal
// id and the role's id-range invariant means the role field follows the
// stored record, not the request.
func (s *AdminService) ModifyUser(targetID int, name, password string, active bool) error {
	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(h)
	}
	_, err := s.users.Update(targetID, func(u *domain.User) error {
		u.Name = name
		u.Active = active
		if hash != "" {
			u.PasswordHash = hash
		}
		return nil
	})
	return err
}

// UsersByRole returns up to max users with the given role plus the true
// total.
func (s *AdminService) UsersByRole(role domain.Role, max int) ([]domain.User, int, error) {
	if !role.Valid() {
		return nil, 0, domain.ErrInvalidRole
	}
	return s.users.ListByRole(role, max)
}
