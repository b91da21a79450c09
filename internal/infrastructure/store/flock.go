package store

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Advisory byte-range locks (fcntl F_SETLKW). These are the cross-process
// layer of the locking coordinator: they protect a record region against
// other lock-respecting local processes, not against threads of this
// process — that is the in-process mutex layer's job. Acquisition order is
// always mutex first, advisory lock second; release is the exact reverse.

// LockSlot blocks until the advisory lock on the slot's byte range is held.
func (rf *RecordFile) LockSlot(slot int64, exclusive bool) error {
	return fcntlLock(rf.f, lockType(exclusive), slot*rf.size, rf.size)
}

// UnlockSlot releases the advisory lock on the slot's byte range.
func (rf *RecordFile) UnlockSlot(slot int64) error {
	return fcntlLock(rf.f, unix.F_UNLCK, slot*rf.size, rf.size)
}

// LockFile blocks until an advisory lock covering the whole file is held.
func (rf *RecordFile) LockFile(exclusive bool) error {
	return fcntlLock(rf.f, lockType(exclusive), 0, 0)
}

// UnlockFile releases the whole-file advisory lock.
func (rf *RecordFile) UnlockFile() error {
	return fcntlLock(rf.f, unix.F_UNLCK, 0, 0)
}

func lockType(exclusive bool) int16 {
	if exclusive {
		return unix.F_WRLCK
	}
	return unix.F_RDLCK
}

func fcntlLock(f *os.File, typ int16, start, length int64) error {
	lk := unix.Flock_t{
		Type:   typ,
		Whence: int16(io.SeekStart),
		Start:  start,
		Len:    length,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLKW, &lk); err != nil {
		return fmt.Errorf("store: fcntl lock: %w", err)
	}
	return nil
}
