package store

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/minibank/banking-system/internal/core/domain"
)

const userFileName = "db_users.dat"

// UserRepository persists user records in a sparse record-addressed file:
// user N lives at slot N.
type UserRepository struct {
	rf      *RecordFile
	locks   *IDLocks
	allocMu sync.Mutex
}

// NewUserRepository opens the user file in dataDir. locks must be the table
// shared with the account repository.
func NewUserRepository(dataDir string, locks *IDLocks) (*UserRepository, error) {
	rf, err := OpenRecordFile(filepath.Join(dataDir, userFileName), UserRecordSize)
	if err != nil {
		return nil, err
	}
	return &UserRepository{rf: rf, locks: locks}, nil
}

func (r *UserRepository) Close() error { return r.rf.Close() }

// Get reads one user under an advisory read lock only. It deliberately skips
// the in-process mutex: the transfer path reads the recipient's user record
// while holding the account pair lock on the shared table, and taking the
// same table here would self-deadlock.
func (r *UserRepository) Get(id int) (*domain.User, error) {
	if id <= 0 || id > domain.MaxUserID {
		return nil, domain.ErrUserNotFound
	}
	slot := int64(id)
	if err := r.rf.LockSlot(slot, false); err != nil {
		return nil, err
	}
	defer r.rf.UnlockSlot(slot)

	return r.readSlot(id)
}

func (r *UserRepository) readSlot(id int) (*domain.User, error) {
	raw, err := r.rf.ReadSlot(int64(id))
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	var rec userRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return nil, err
	}
	if rec.ID == 0 || int(rec.ID) != id {
		return nil, domain.ErrUserNotFound
	}
	return userFromRecord(&rec), nil
}

// Update applies fn to the user under the dual-layer lock and persists the
// result. If fn returns an error the record is left untouched.
func (r *UserRepository) Update(id int, fn func(*domain.User) error) (*domain.User, error) {
	if id <= 0 || id > domain.MaxUserID {
		return nil, domain.ErrUserNotFound
	}
	release := r.locks.Lock(id)
	defer release()

	slot := int64(id)
	if err := r.rf.LockSlot(slot, true); err != nil {
		return nil, err
	}
	defer r.rf.UnlockSlot(slot)

	u, err := r.readSlot(id)
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := r.rf.WriteSlot(slot, encodeRecord(userToRecord(u))); err != nil {
		return nil, err
	}
	return u, nil
}

// Create allocates the first free slot in u.Role's id range and writes the
// record. Physical EOF and a zero id field are both "free"; a corrupted but
// non-zero slot is treated as occupied. The allocation mutex is held for the
// whole allocate-and-write sequence because fcntl locks do not exclude
// threads of the same process.
func (r *UserRepository) Create(u *domain.User) (int, error) {
	start, end := u.Role.IDRange()
	if start == 0 {
		return 0, domain.ErrInvalidRole
	}

	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	if err := r.rf.LockFile(true); err != nil {
		return 0, err
	}
	defer r.rf.UnlockFile()

	id := start
	for {
		raw, err := r.rf.ReadSlot(int64(id))
		if errors.Is(err, ErrSlotEmpty) {
			break
		}
		if err != nil {
			return 0, err
		}
		var rec userRecord
		if err := decodeRecord(raw, &rec); err != nil {
			return 0, err
		}
		if rec.ID == 0 {
			break
		}
		id++
		if id > end {
			return 0, domain.ErrIDExhausted
		}
	}

	u.ID = id
	u.Username = usernameFor(id)
	if err := r.rf.WriteSlot(int64(id), encodeRecord(userToRecord(u))); err != nil {
		return 0, err
	}
	return id, nil
}

// ListByRole returns up to max users with the given role, plus the true
// total matched.
func (r *UserRepository) ListByRole(role domain.Role, max int) ([]domain.User, int, error) {
	if err := r.rf.LockFile(false); err != nil {
		return nil, 0, err
	}
	defer r.rf.UnlockFile()

	var (
		users []domain.User
		total int
	)
	err := r.rf.Scan(func(_ int64, raw []byte) bool {
		var rec userRecord
		if decodeRecord(raw, &rec) != nil {
			return true
		}
		if rec.ID == 0 || domain.Role(rec.Role) != role {
			return true
		}
		total++
		if len(users) < max {
			users = append(users, *userFromRecord(&rec))
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Put writes a user record at its exact id slot, bypassing allocation. Used
// by the bootstrap utility to seed well-known ids.
func (r *UserRepository) Put(u *domain.User) error {
	if u.ID <= 0 || u.ID > domain.MaxUserID {
		return domain.ErrUserNotFound
	}
	release := r.locks.Lock(u.ID)
	defer release()

	slot := int64(u.ID)
	if err := r.rf.LockSlot(slot, true); err != nil {
		return err
	}
	defer r.rf.UnlockSlot(slot)

	return r.rf.WriteSlot(slot, encodeRecord(userToRecord(u)))
}

// Truncate discards every user record. Bootstrap only.
func (r *UserRepository) Truncate() error { return r.rf.Truncate() }
