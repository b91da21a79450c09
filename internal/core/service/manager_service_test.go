package service

import (
	"errors"
	"testing"

	"github.com/minibank/banking-system/internal/core/domain"
)

func TestManagerService_DeactivateActivate(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, 1001, 0)

	if err := f.manager.SetUserActive(1001, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.auth.Login("1001", "pass", domain.RoleCustomer); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("deactivated login: got %v, want ErrUserInactive", err)
	}

	if err := f.manager.SetUserActive(1001, false); !errors.Is(err, domain.ErrAlreadyInactive) {
		t.Fatalf("double deactivate: got %v, want ErrAlreadyInactive", err)
	}

	if err := f.manager.SetUserActive(1001, true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := f.manager.SetUserActive(1001, true); !errors.Is(err, domain.ErrAlreadyActive) {
		t.Fatalf("double activate: got %v, want ErrAlreadyActive", err)
	}

	if _, err := f.auth.Login("1001", "pass", domain.RoleCustomer); err != nil {
		t.Fatalf("reactivated login: %v", err)
	}
}

func TestManagerService_LifecycleOnlyForCustomers(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, 2001, domain.RoleEmployee, "pass", true)

	if err := f.manager.SetUserActive(2001, false); !errors.Is(err, domain.ErrNotCustomer) {
		t.Fatalf("deactivate employee: got %v, want ErrNotCustomer", err)
	}
}

func TestManagerService_UsersByRole(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, 1001, 0)
	f.seedCustomer(t, 1002, 0)
	f.seedUser(t, 2001, domain.RoleEmployee, "pass", true)

	users, total, err := f.manager.UsersByRole(domain.RoleCustomer, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("customer list: total=%d len=%d", total, len(users))
	}

	if _, _, err := f.manager.UsersByRole(domain.Role(9), 10); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("bad role: got %v, want ErrInvalidRole", err)
	}
}
