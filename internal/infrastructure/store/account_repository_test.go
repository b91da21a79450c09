package store

import (
	"errors"
	"testing"

	"github.com/minibank/banking-system/internal/core/domain"
)

func newAccountRepo(t *testing.T) *AccountRepository {
	t.Helper()
	r, err := NewAccountRepository(t.TempDir(), NewIDLocks())
	if err != nil {
		t.Fatalf("open account repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAccountRepository_CreateGet(t *testing.T) {
	r := newAccountRepo(t)

	if err := r.Create(&domain.Account{AccountID: 1001, CustomerID: 1001, Balance: 10000}); err != nil {
		t.Fatalf("create: %v", err)
	}
	acc, err := r.Get(1001)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Balance != 10000 {
		t.Fatalf("balance %v, want 10000", acc.Balance)
	}
}

func TestAccountRepository_GetMissing(t *testing.T) {
	r := newAccountRepo(t)
	if _, err := r.Get(1001); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("missing account: got %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_UpdatePairCommitsBoth(t *testing.T) {
	r := newAccountRepo(t)
	mustCreate(t, r, 1001, 100)
	mustCreate(t, r, 1002, 50)

	err := r.UpdatePair(1001, 1002, func(from, to *domain.Account) error {
		from.Balance -= 30
		to.Balance += 30
		return nil
	})
	if err != nil {
		t.Fatalf("update pair: %v", err)
	}

	assertBalance(t, r, 1001, 70)
	assertBalance(t, r, 1002, 80)
}

func TestAccountRepository_UpdatePairErrorTouchesNeither(t *testing.T) {
	r := newAccountRepo(t)
	mustCreate(t, r, 1001, 100)
	mustCreate(t, r, 1002, 50)

	sentinel := errors.New("abort")
	err := r.UpdatePair(1001, 1002, func(from, to *domain.Account) error {
		from.Balance = 0
		to.Balance = 0
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("update pair: got %v, want sentinel", err)
	}

	assertBalance(t, r, 1001, 100)
	assertBalance(t, r, 1002, 50)
}

func TestAccountRepository_UpdatePairMissingPassedAsNil(t *testing.T) {
	r := newAccountRepo(t)
	mustCreate(t, r, 1001, 100)

	var sawFrom, sawTo bool
	err := r.UpdatePair(1001, 1002, func(from, to *domain.Account) error {
		sawFrom = from != nil
		sawTo = to != nil
		return errors.New("stop")
	})
	if err == nil {
		t.Fatalf("expected fn error to propagate")
	}
	if !sawFrom || sawTo {
		t.Fatalf("nil mapping wrong: from present=%v to present=%v", sawFrom, sawTo)
	}
}

func mustCreate(t *testing.T, r *AccountRepository, id int, balance float64) {
	t.Helper()
	if err := r.Create(&domain.Account{AccountID: id, CustomerID: id, Balance: balance}); err != nil {
		t.Fatalf("create account %d: %v", id, err)
	}
}

func assertBalance(t *testing.T, r *AccountRepository, id int, want float64) {
	t.Helper()
	acc, err := r.Get(id)
	if err != nil {
		t.Fatalf("get account %d: %v", id, err)
	}
	if acc.Balance != want {
		t.Fatalf("account %d balance %v, want %v", id, acc.Balance, want)
	}
}
