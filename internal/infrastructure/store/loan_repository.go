package store

import (
	"errors"
	"path/filepath"

	"github.com/minibank/banking-system/internal/core/domain"
)

const loanFileName = "db_loans.dat"

// LoanRepository appends loan applications like a ledger, then rewrites them
// in place for status and assignment updates. Loan ids are dense and
// 1-based, matching append order, so loan N lives at slot N-1.
type LoanRepository struct {
	rf     *RecordFile
	ledger *Ledger
	locks  *IDLocks
}

// NewLoanRepository opens the loan file in dataDir. Loans use their own
// mutex table: loan ids are a separate, overlapping numeric space from user
// and account ids.
func NewLoanRepository(dataDir string) (*LoanRepository, error) {
	rf, err := OpenRecordFile(filepath.Join(dataDir, loanFileName), LoanRecordSize)
	if err != nil {
		return nil, err
	}
	return &LoanRepository{rf: rf, ledger: NewLedger(rf), locks: NewIDLocks()}, nil
}

func (r *LoanRepository) Close() error { return r.rf.Close() }

// Create appends a new PENDING, unassigned loan and returns its id.
func (r *LoanRepository) Create(customerID int, amount float64) (int, error) {
	id, err := r.ledger.Append(func(id int64) []byte {
		loan := domain.Loan{
			ID:         int(id),
			CustomerID: customerID,
			Amount:     amount,
			Status:     domain.LoanPending,
		}
		return encodeRecord(loanToRecord(&loan))
	})
	return int(id), err
}

func (r *LoanRepository) readSlot(id int) (*domain.Loan, error) {
	raw, err := r.rf.ReadSlot(int64(id - 1))
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	var rec loanRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return nil, err
	}
	if int(rec.ID) != id {
		return nil, domain.ErrLoanNotFound
	}
	return loanFromRecord(&rec), nil
}

// Update applies fn to the loan under the dual-layer lock and rewrites the
// record in place. If fn returns an error the record is left untouched.
func (r *LoanRepository) Update(id int, fn func(*domain.Loan) error) (*domain.Loan, error) {
	if id <= 0 {
		return nil, domain.ErrLoanNotFound
	}
	release := r.locks.Lock(id)
	defer release()

	slot := int64(id - 1)
	if err := r.rf.LockSlot(slot, true); err != nil {
		return nil, err
	}
	defer r.rf.UnlockSlot(slot)

	loan, err := r.readSlot(id)
	if err != nil {
		return nil, err
	}
	if err := fn(loan); err != nil {
		return nil, err
	}
	if err := r.rf.WriteSlot(slot, encodeRecord(loanToRecord(loan))); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListPending returns up to max PENDING loans plus the true total.
func (r *LoanRepository) ListPending(max int) ([]domain.Loan, int, error) {
	return r.list(max, func(l *domain.Loan) bool {
		return l.Status == domain.LoanPending
	})
}

// ListAssigned returns up to max PENDING loans assigned to the employee,
// plus the true total.
func (r *LoanRepository) ListAssigned(employeeID, max int) ([]domain.Loan, int, error) {
	return r.list(max, func(l *domain.Loan) bool {
		return l.Status == domain.LoanPending && l.AssignedEmployeeID == employeeID
	})
}

func (r *LoanRepository) list(max int, match func(*domain.Loan) bool) ([]domain.Loan, int, error) {
	if err := r.rf.LockFile(false); err != nil {
		return nil, 0, err
	}
	defer r.rf.UnlockFile()

	var (
		loans []domain.Loan
		total int
	)
	err := r.rf.Scan(func(_ int64, raw []byte) bool {
		var rec loanRecord
		if decodeRecord(raw, &rec) != nil {
			return true
		}
		loan := loanFromRecord(&rec)
		if !match(loan) {
			return true
		}
		total++
		if len(loans) < max {
			loans = append(loans, *loan)
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

// Truncate discards every loan record. Bootstrap only.
func (r *LoanRepository) Truncate() error { return r.rf.Truncate() }
