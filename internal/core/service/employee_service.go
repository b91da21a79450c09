package service

import (
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/ports"
)

// EmployeeService implements the employee operations: customer onboarding
// and loan processing.
type EmployeeService struct {
	users    ports.UserRepository
	accounts ports.AccountRepository
	loans    ports.LoanRepository
	txlog    ports.TransactionLog
	log      zerolog.Logger
}

func NewEmployeeService(
	users ports.UserRepository,
	accounts ports.AccountRepository,
	loans ports.LoanRepository,
	txlog ports.TransactionLog,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		users:    users,
		accounts: accounts,
		loans:    loans,
		txlog:    txlog,
		log:      log,
	}
}

// AddCustomer allocates a customer id, creates the user record, and creates
// the paired zero-balance account.
func (s *EmployeeService) AddCustomer(name, password string) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	id, err := s.users.Create(&domain.User{
		Role:         domain.RoleCustomer,
		Name:         name,
		PasswordHash: string(hash),
		Active:       true,
	})
	if err != nil {
		return 0, err
	}
	if err := s.accounts.Create(&domain.Account{AccountID: id, CustomerID: id}); err != nil {
		return 0, err
	}
	return id, nil
}

// ModifyCustomer updates a customer's display name. Only customer records
// may be modified through this operation.
func (s *EmployeeService) ModifyCustomer(targetID int, name string) error {
	_, err := s.users.Update(targetID, func(u *domain.User) error {
		if u.Role != domain.RoleCustomer {
			return domain.ErrNotCustomer
		}
		u.Name = name
		return nil
	})
	return err
}

// AssignedLoans returns up to max PENDING loans assigned to the employee,
// plus the true total.
func (s *EmployeeService) AssignedLoans(employeeID, max int) ([]domain.Loan, int, error) {
	return s.loans.ListAssigned(employeeID, max)
}

// ProcessLoan approves or rejects a PENDING loan assigned to the employee.
// On approval the customer's account is credited while the loan record lock
// is held, then a LOAN_DEPOSIT ledger entry is appended.
func (s *EmployeeService) ProcessLoan(employeeID, loanID int, approve bool) error {
	var (
		credited   bool
		customerID int
		amount     float64
		newBalance float64
	)
	_, err := s.loans.Update(loanID, func(l *domain.Loan) error {
		if l.AssignedEmployeeID != employeeID {
			return domain.ErrLoanNotAssigned
		}
		if l.Status != domain.LoanPending {
			return domain.ErrLoanNotPending
		}
		if !approve {
			l.Status = domain.LoanRejected
			return nil
		}
		acc, err := s.accounts.Update(l.CustomerID, func(a *domain.Account) error {
			a.Balance += l.Amount
			return nil
		})
		if err != nil {
			return err
		}
		l.Status = domain.LoanApproved
		credited = true
		customerID = l.CustomerID
		amount = l.Amount
		newBalance = acc.Balance
		return nil
	})
	if err != nil {
		return err
	}
	if credited {
		if _, err := s.txlog.Append(customerID, domain.TxLoanDeposit, amount, newBalance); err != nil {
			s.log.Error().Err(err).
				Int("account_id", customerID).
				Int("loan_id", loanID).
				Msg("audit entry lost")
		}
	}
	return nil
}

// CustomerTransactions returns up to max ledger entries for the target
// customer, newest first, plus the true total.
func (s *EmployeeService) CustomerTransactions(targetID, max int) ([]domain.Transaction, int, error) {
	return s.txlog.ListByAccount(targetID, max)
}
