package ports

import "github.com/minibank/banking-system/internal/core/domain"

// UserRepository persists user records addressed by id. Implementations own
// the locking discipline: single-record mutations run under the record's
// in-process mutex plus an advisory write lock on the record's byte range,
// and Create holds an exclusive whole-file lock for the entire
// allocate-and-write sequence.
type UserRepository interface {
	// Get reads one user. Plain reads take only the advisory read lock, not
	// the in-process mutex, so they stay safe to call from inside a held
	// account pair lock (the transfer path does exactly that).
	Get(id int) (*domain.User, error)
	// Update applies fn to the user under the full dual-layer lock and
	// persists the result. If fn returns an error nothing is written.
	Update(id int, fn func(*domain.User) error) (*domain.User, error)
	// Create allocates the first free id in u.Role's reserved range, fills
	// in ID and Username, writes the record and returns the id.
	// Fails with domain.ErrIDExhausted when the range is full.
	Create(u *domain.User) (int, error)
	// ListByRole returns up to max users with the given role along with the
	// true total matched.
	ListByRole(role domain.Role, max int) ([]domain.User, int, error)
}

// AccountRepository persists account records addressed by the owning
// customer id, under the same dual-layer locking as UserRepository.
type AccountRepository interface {
	Get(id int) (*domain.Account, error)
	// Create writes a new account record at its id slot.
	Create(a *domain.Account) error
	// Update applies fn under the dual-layer lock; nothing is written if fn
	// fails.
	Update(id int, fn func(*domain.Account) error) (*domain.Account, error)
	// UpdatePair locks both records in canonical ascending-id order (both
	// layers), reads both, applies fn, and persists both only if fn
	// succeeds. A missing record is passed to fn as nil so the caller can
	// report which side is invalid. No partial write is ever visible.
	UpdatePair(fromID, toID int, fn func(from, to *domain.Account) error) error
}

// TransactionLog is the append-only audit ledger.
type TransactionLog interface {
	// Append assigns the next sequential id and writes the entry. All
	// appenders to the log are serialized globally.
	Append(accountID int, txType string, amount, newBalance float64) (int, error)
	// ListByAccount returns up to max entries for the account, newest
	// first, plus the true total matched.
	ListByAccount(accountID, max int) ([]domain.Transaction, int, error)
}

// LoanRepository appends loan applications and rewrites them in place for
// status and assignment updates.
type LoanRepository interface {
	Create(customerID int, amount float64) (int, error)
	Update(id int, fn func(*domain.Loan) error) (*domain.Loan, error)
	ListPending(max int) ([]domain.Loan, int, error)
	ListAssigned(employeeID, max int) ([]domain.Loan, int, error)
}

// FeedbackLog is the append-only customer feedback log.
type FeedbackLog interface {
	Append(customerID int, message string) (int, error)
	List(max int) ([]domain.Feedback, int, error)
}
