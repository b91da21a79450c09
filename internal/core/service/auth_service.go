package service

import (
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/ports"
)

// AuthService implements login, logout and password changes.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRegistry
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRegistry) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login authenticates a user. Checks run in a fixed order: credentials,
// claimed role against the stored role, active flag, then session
// exclusivity — each failure maps to its own error so clients can tell a
// session conflict apart from bad credentials.
func (s *AuthService) Login(username, password string, claimed domain.Role) (*domain.User, error) {
	id, err := strconv.Atoi(strings.TrimSpace(username))
	if err != nil || id <= 0 || id > domain.MaxUserID {
		return nil, domain.ErrInvalidCredentials
	}

	u, err := s.users.Get(id)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if u.Role != claimed {
		return nil, domain.ErrRoleMismatch
	}
	if !u.Active {
		return nil, domain.ErrUserInactive
	}
	if !s.sessions.TryLogin(u.ID) {
		return nil, domain.ErrSessionActive
	}
	return u, nil
}

// Logout releases the user's session.
func (s *AuthService) Logout(userID int) {
	s.sessions.Logout(userID)
}

// ChangePassword rehashes and stores the new password. Works for every role.
func (s *AuthService) ChangePassword(userID int, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.users.Update(userID, func(u *domain.User) error {
		u.PasswordHash = string(hash)
		return nil
	})
	return err
}
