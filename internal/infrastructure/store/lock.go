package store

import "sync"

// IDLocks is the in-process layer of the locking coordinator: one mutex per
// numeric id, created lazily. Users and accounts share a single table
// (their id ranges are disjoint); loans get their own.
//
// Every acquisition returns a release closure so callers can defer it and
// guarantee release on every exit path — success, validation failure, or
// error.
type IDLocks struct {
	mu  sync.Mutex
	ids map[int]*sync.Mutex
}

func NewIDLocks() *IDLocks {
	return &IDLocks{ids: make(map[int]*sync.Mutex)}
}

func (l *IDLocks) get(id int) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.ids[id]
	if !ok {
		m = &sync.Mutex{}
		l.ids[id] = m
	}
	return m
}

// Lock acquires the mutex for one id.
func (l *IDLocks) Lock(id int) (release func()) {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// LockPair acquires the mutexes for both ids in ascending numeric order, so
// any two concurrent pair operations over the same ids request them in the
// same global order and no cycle can form. The release closure unlocks in
// the mirror order.
func (l *IDLocks) LockPair(a, b int) (release func()) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	mlo := l.get(lo)
	mlo.Lock()
	if hi == lo {
		return mlo.Unlock
	}
	mhi := l.get(hi)
	mhi.Lock()
	return func() {
		mhi.Unlock()
		mlo.Unlock()
	}
}
