package store

import (
	"sync"
	"testing"
	"time"
)

func TestIDLocks_Exclusion(t *testing.T) {
	locks := NewIDLocks()

	release := locks.Lock(7)
	acquired := make(chan struct{})
	go func() {
		r := locks.Lock(7)
		r()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquisition succeeded while lock held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("second acquisition never completed")
	}
}

func TestIDLocks_PairOppositeOrdersNoDeadlock(t *testing.T) {
	locks := NewIDLocks()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			release := locks.LockPair(1, 2)
			release()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			release := locks.LockPair(2, 1)
			release()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("opposing pair lockers deadlocked")
	}
}

func TestIDLocks_PairSameID(t *testing.T) {
	locks := NewIDLocks()
	release := locks.LockPair(3, 3)
	release()
	// Must be reacquirable after release.
	release = locks.Lock(3)
	release()
}
