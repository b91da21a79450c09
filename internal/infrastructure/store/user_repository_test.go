package store

import (
	"errors"
	"testing"

	"github.com/minibank/banking-system/internal/core/domain"
)

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	r, err := NewUserRepository(t.TempDir(), NewIDLocks())
	if err != nil {
		t.Fatalf("open user repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestUserRepository_CreateAllocatesSequentially(t *testing.T) {
	r := newUserRepo(t)

	for want := 1001; want <= 1003; want++ {
		id, err := r.Create(&domain.User{Role: domain.RoleCustomer, Name: "c", Active: true})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id != want {
			t.Fatalf("expected id %d, got %d", want, id)
		}
	}

	// Other roles allocate from their own range regardless of customers.
	id, err := r.Create(&domain.User{Role: domain.RoleEmployee, Name: "e", Active: true})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if id != 2001 {
		t.Fatalf("expected employee id 2001, got %d", id)
	}
}

func TestUserRepository_CreateSetsUsernameToID(t *testing.T) {
	r := newUserRepo(t)

	id, err := r.Create(&domain.User{Role: domain.RoleManager, Name: "m", Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := r.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Username != "3001" {
		t.Fatalf("username %q, want \"3001\"", u.Username)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	r := newUserRepo(t)

	if _, err := r.Get(1500); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("missing user: got %v, want ErrUserNotFound", err)
	}
	if _, err := r.Get(0); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("id 0: got %v, want ErrUserNotFound", err)
	}
	if _, err := r.Get(domain.MaxUserID + 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("out of range: got %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_UpdateRoundTrip(t *testing.T) {
	r := newUserRepo(t)

	id, err := r.Create(&domain.User{Role: domain.RoleCustomer, Name: "before", Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := r.Update(id, func(u *domain.User) error {
		u.Name = "after"
		u.Active = false
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	u, err := r.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Name != "after" || u.Active {
		t.Fatalf("update not persisted: %+v", u)
	}
}

func TestUserRepository_UpdateErrorLeavesRecord(t *testing.T) {
	r := newUserRepo(t)

	id, err := r.Create(&domain.User{Role: domain.RoleCustomer, Name: "keep", Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sentinel := errors.New("no")
	if _, err := r.Update(id, func(u *domain.User) error {
		u.Name = "discard"
		return sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("update: got %v, want sentinel", err)
	}

	u, err := r.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Name != "keep" {
		t.Fatalf("record mutated on failed update: %+v", u)
	}
}

func TestUserRepository_PutSeedsExactSlot(t *testing.T) {
	r := newUserRepo(t)

	seed := &domain.User{
		ID: 4001, Role: domain.RoleAdmin, Username: "4001",
		PasswordHash: "h", Name: "Eve White (Admin)", Active: true,
	}
	if err := r.Put(seed); err != nil {
		t.Fatalf("put: %v", err)
	}

	u, err := r.Get(4001)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Name != seed.Name || u.Role != domain.RoleAdmin {
		t.Fatalf("seeded record mismatch: %+v", u)
	}
}

func TestUserRepository_ListByRole(t *testing.T) {
	r := newUserRepo(t)

	for i := 0; i < 3; i++ {
		if _, err := r.Create(&domain.User{Role: domain.RoleCustomer, Name: "c", Active: true}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := r.Create(&domain.User{Role: domain.RoleEmployee, Name: "e", Active: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	users, total, err := r.ListByRole(domain.RoleCustomer, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total %d, want 3", total)
	}
	if len(users) != 2 {
		t.Fatalf("returned %d users, want cap 2", len(users))
	}
}
