package store

import (
	"errors"
	"path/filepath"

	"github.com/minibank/banking-system/internal/core/domain"
)

const accountFileName = "db_accounts.dat"

// AccountRepository persists account records in a sparse record-addressed
// file keyed by the owning customer id.
type AccountRepository struct {
	rf    *RecordFile
	locks *IDLocks
}

// NewAccountRepository opens the account file in dataDir. locks must be the
// table shared with the user repository.
func NewAccountRepository(dataDir string, locks *IDLocks) (*AccountRepository, error) {
	rf, err := OpenRecordFile(filepath.Join(dataDir, accountFileName), AccountRecordSize)
	if err != nil {
		return nil, err
	}
	return &AccountRepository{rf: rf, locks: locks}, nil
}

func (r *AccountRepository) Close() error { return r.rf.Close() }

func (r *AccountRepository) readSlot(id int) (*domain.Account, error) {
	raw, err := r.rf.ReadSlot(int64(id))
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	var rec accountRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return nil, err
	}
	if rec.AccountID == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return accountFromRecord(&rec), nil
}

// Get reads one account under the dual-layer lock (shared advisory lock for
// the cross-process layer).
func (r *AccountRepository) Get(id int) (*domain.Account, error) {
	if id <= 0 || id > domain.MaxUserID {
		return nil, domain.ErrAccountNotFound
	}
	release := r.locks.Lock(id)
	defer release()

	slot := int64(id)
	if err := r.rf.LockSlot(slot, false); err != nil {
		return nil, err
	}
	defer r.rf.UnlockSlot(slot)

	return r.readSlot(id)
}

// Create writes a new account record at its id slot.
func (r *AccountRepository) Create(a *domain.Account) error {
	if a.AccountID <= 0 || a.AccountID > domain.MaxUserID {
		return domain.ErrAccountNotFound
	}
	release := r.locks.Lock(a.AccountID)
	defer release()

	slot := int64(a.AccountID)
	if err := r.rf.LockSlot(slot, true); err != nil {
		return err
	}
	defer r.rf.UnlockSlot(slot)

	return r.rf.WriteSlot(slot, encodeRecord(accountToRecord(a)))
}

// Update applies fn to the account under the dual-layer lock and persists
// the result. If fn returns an error the record is left untouched.
func (r *AccountRepository) Update(id int, fn func(*domain.Account) error) (*domain.Account, error) {
	if id <= 0 || id > domain.MaxUserID {
		return nil, domain.ErrAccountNotFound
	}
	release := r.locks.Lock(id)
	defer release()

	slot := int64(id)
	if err := r.rf.LockSlot(slot, true); err != nil {
		return nil, err
	}
	defer r.rf.UnlockSlot(slot)

	a, err := r.readSlot(id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := r.rf.WriteSlot(slot, encodeRecord(accountToRecord(a))); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdatePair locks both records in canonical ascending-id order — mutexes
// first, then the advisory locks, likewise ascending — reads both, applies
// fn, and persists both only if fn succeeds. Missing records are passed to
// fn as nil. Release happens in the mirror order on every path via defer.
func (r *AccountRepository) UpdatePair(fromID, toID int, fn func(from, to *domain.Account) error) error {
	release := r.locks.LockPair(fromID, toID)
	defer release()

	lo, hi := fromID, toID
	if lo > hi {
		lo, hi = hi, lo
	}
	if err := r.rf.LockSlot(int64(lo), true); err != nil {
		return err
	}
	defer r.rf.UnlockSlot(int64(lo))
	if hi != lo {
		if err := r.rf.LockSlot(int64(hi), true); err != nil {
			return err
		}
		defer r.rf.UnlockSlot(int64(hi))
	}

	from, err := r.readSlot(fromID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}
	to, err := r.readSlot(toID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	if err := fn(from, to); err != nil {
		return err
	}

	if err := r.rf.WriteSlot(int64(fromID), encodeRecord(accountToRecord(from))); err != nil {
		return err
	}
	return r.rf.WriteSlot(int64(toID), encodeRecord(accountToRecord(to)))
}

// Truncate discards every account record. Bootstrap only.
func (r *AccountRepository) Truncate() error { return r.rf.Truncate() }
