package service

import (
	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/ports"
)

// CustomerService implements the customer-facing account operations,
// including the two-account transfer protocol.
type CustomerService struct {
	accounts ports.AccountRepository
	users    ports.UserRepository
	loans    ports.LoanRepository
	txlog    ports.TransactionLog
	feedback ports.FeedbackLog
	log      zerolog.Logger
}

func NewCustomerService(
	accounts ports.AccountRepository,
	users ports.UserRepository,
	loans ports.LoanRepository,
	txlog ports.TransactionLog,
	feedback ports.FeedbackLog,
	log zerolog.Logger,
) *CustomerService {
	return &CustomerService{
		accounts: accounts,
		users:    users,
		loans:    loans,
		txlog:    txlog,
		feedback: feedback,
		log:      log,
	}
}

// Balance returns the customer's current balance.
func (s *CustomerService) Balance(customerID int) (float64, error) {
	acc, err := s.accounts.Get(customerID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Deposit credits the account and appends a DEPOSIT ledger entry.
func (s *CustomerService) Deposit(customerID int, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	acc, err := s.accounts.Update(customerID, func(a *domain.Account) error {
		a.Balance += amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.appendAudit(customerID, domain.TxDeposit, amount, acc.Balance)
	return acc.Balance, nil
}

// Withdraw debits the account if funds suffice and appends a WITHDRAW ledger
// entry. On insufficient funds the balance is left untouched and no entry is
// appended.
func (s *CustomerService) Withdraw(customerID int, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	acc, err := s.accounts.Update(customerID, func(a *domain.Account) error {
		if a.Balance < amount {
			return domain.ErrInsufficientFunds
		}
		a.Balance -= amount
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.appendAudit(customerID, domain.TxWithdraw, amount, acc.Balance)
	return acc.Balance, nil
}

// Transfer moves funds between two accounts with an all-or-nothing visible
// effect. Both records are mutated under the canonical pair lock; the
// validation chain short-circuits on the first failure and leaves both
// accounts untouched. The two audit entries are appended after the locks are
// released: a crash in that window loses only the audit lines, never funds.
func (s *CustomerService) Transfer(fromID, toID int, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if toID <= 0 || toID > domain.MaxUserID {
		return 0, domain.ErrInvalidRecipient
	}
	if toID == fromID {
		return 0, domain.ErrSelfTransfer
	}

	var fromBalance, toBalance float64
	err := s.accounts.UpdatePair(fromID, toID, func(from, to *domain.Account) error {
		if from == nil {
			return domain.ErrAccountNotFound
		}
		if to == nil {
			return domain.ErrInvalidRecipient
		}
		recipient, err := s.users.Get(toID)
		if err != nil || recipient.ID != toID {
			return domain.ErrRecipientNotFound
		}
		if !recipient.Active {
			return domain.ErrRecipientInactive
		}
		if from.AccountID != fromID || to.AccountID != toID {
			return domain.ErrAccountMismatch
		}
		if from.Balance < amount {
			return domain.ErrInsufficientFunds
		}
		from.Balance -= amount
		to.Balance += amount
		fromBalance, toBalance = from.Balance, to.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.appendAudit(fromID, domain.TxTransferOut, amount, fromBalance)
	s.appendAudit(toID, domain.TxTransferIn, amount, toBalance)
	return fromBalance, nil
}

// ApplyLoan files a PENDING loan application and returns its id.
func (s *CustomerService) ApplyLoan(customerID int, amount float64) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return s.loans.Create(customerID, amount)
}

// AddFeedback appends a feedback entry.
func (s *CustomerService) AddFeedback(customerID int, message string) (int, error) {
	return s.feedback.Append(customerID, message)
}

// History returns up to max of the customer's ledger entries, newest first,
// plus the true total.
func (s *CustomerService) History(customerID, max int) ([]domain.Transaction, int, error) {
	return s.txlog.ListByAccount(customerID, max)
}

// appendAudit writes a ledger entry for an already-committed balance change.
// Failures are logged, not returned: the funds movement is durable at this
// point and must still be reported as a success.
func (s *CustomerService) appendAudit(accountID int, txType string, amount, newBalance float64) {
	if _, err := s.txlog.Append(accountID, txType, amount, newBalance); err != nil {
		s.log.Error().Err(err).
			Int("account_id", accountID).
			Str("type", txType).
			Msg("audit entry lost")
	}
}
