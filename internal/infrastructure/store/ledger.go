package store

import "sync"

// Ledger serializes all appenders to one record file and assigns dense,
// 1-based sequential ids derived from the current file length. The mutex
// excludes threads of this process and the exclusive whole-file advisory
// lock excludes other processes; both cover the read-length-then-write
// sequence, so no two appenders can observe the same length and collide.
type Ledger struct {
	mu sync.Mutex
	rf *RecordFile
}

func NewLedger(rf *RecordFile) *Ledger {
	return &Ledger{rf: rf}
}

// Append computes the next id, invokes build to produce the encoded record
// for that id, and writes it at the end of the file.
func (l *Ledger) Append(build func(id int64) []byte) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rf.LockFile(true); err != nil {
		return 0, err
	}
	defer l.rf.UnlockFile()

	n, err := l.rf.NumRecords()
	if err != nil {
		return 0, err
	}
	id := n + 1
	if err := l.rf.WriteSlot(n, build(id)); err != nil {
		return 0, err
	}
	return id, nil
}
