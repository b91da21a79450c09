package service

import (
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/ports"
)

// ManagerService implements the manager operations: customer lifecycle,
// loan assignment and review listings.
type ManagerService struct {
	users    ports.UserRepository
	loans    ports.LoanRepository
	feedback ports.FeedbackLog
}

func NewManagerService(users ports.UserRepository, loans ports.LoanRepository, feedback ports.FeedbackLog) *ManagerService {
	return &ManagerService{users: users, loans: loans, feedback: feedback}
}

// SetUserActive activates or deactivates a customer. Users are never
// physically deleted; deactivation is the terminal lifecycle operation.
func (s *ManagerService) SetUserActive(targetID int, active bool) error {
	_, err := s.users.Update(targetID, func(u *domain.User) error {
		if u.Role != domain.RoleCustomer {
			return domain.ErrNotCustomer
		}
		if active && u.Active {
			return domain.ErrAlreadyActive
		}
		if !active && !u.Active {
			return domain.ErrAlreadyInactive
		}
		u.Active = active
		return nil
	})
	return err
}

// AssignLoan assigns a PENDING loan to an employee. The assignee must exist
// and actually be an employee.
func (s *ManagerService) AssignLoan(loanID, employeeID int) error {
	emp, err := s.users.Get(employeeID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if emp.Role != domain.RoleEmployee {
		return domain.ErrNotEmployee
	}
	_, err = s.loans.Update(loanID, func(l *domain.Loan) error {
		if l.Status != domain.LoanPending {
			return domain.ErrLoanNotPending
		}
		l.AssignedEmployeeID = employeeID
		return nil
	})
	return err
}

// PendingLoans returns up to max PENDING loans plus the true total.
func (s *ManagerService) PendingLoans(max int) ([]domain.Loan, int, error) {
	return s.loans.ListPending(max)
}

// Feedback returns up to max feedback entries plus the true total.
func (s *ManagerService) Feedback(max int) ([]domain.Feedback, int, error) {
	return s.feedback.List(max)
}

// UsersByRole returns up to max users with the given role plus the true
// total.
func (s *ManagerService) UsersByRole(role domain.Role, max int) ([]domain.User, int, error) {
	if !role.Valid() {
		return nil, 0, domain.ErrInvalidRole
	}
	return s.users.ListByRole(role, max)
}
