package session

import (
	"sync"
	"testing"
)

func TestRegistry_Exclusivity(t *testing.T) {
	r := NewRegistry()

	if !r.TryLogin(1001) {
		t.Fatalf("first login refused")
	}
	if r.TryLogin(1001) {
		t.Fatalf("second login accepted while session active")
	}
	if !r.Active(1001) {
		t.Fatalf("session not reported active")
	}

	r.Logout(1001)
	if r.Active(1001) {
		t.Fatalf("session still active after logout")
	}
	if !r.TryLogin(1001) {
		t.Fatalf("login refused after logout")
	}
}

func TestRegistry_IndependentUsers(t *testing.T) {
	r := NewRegistry()
	if !r.TryLogin(1001) || !r.TryLogin(1002) {
		t.Fatalf("distinct users must not conflict")
	}
}

func TestRegistry_ConcurrentLoginSingleWinner(t *testing.T) {
	r := NewRegistry()

	const n = 32
	var wg sync.WaitGroup
	wins := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- r.TryLogin(1001)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d", won)
	}
}

func TestRegistry_LogoutUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Logout(999)
	if r.Active(999) {
		t.Fatalf("unknown id reported active")
	}
}
