package service

import (
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/infrastructure/session"
	"github.com/minibank/banking-system/internal/infrastructure/store"
)

// fixture wires the services against real record files in a temp dir, the
// same topology the server runs with.
type fixture struct {
	users    *store.UserRepository
	accounts *store.AccountRepository
	loans    *store.LoanRepository
	txlog    *store.TransactionLog
	feedback *store.FeedbackLog
	sessions *session.Registry

	auth     *AuthService
	customer *CustomerService
	employee *EmployeeService
	manager  *ManagerService
	admin    *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	locks := store.NewIDLocks()

	users, err := store.NewUserRepository(dir, locks)
	if err != nil {
		t.Fatalf("open user store: %v", err)
	}
	accounts, err := store.NewAccountRepository(dir, locks)
	if err != nil {
		t.Fatalf("open account store: %v", err)
	}
	loans, err := store.NewLoanRepository(dir)
	if err != nil {
		t.Fatalf("open loan store: %v", err)
	}
	txlog, err := store.NewTransactionLog(dir)
	if err != nil {
		t.Fatalf("open transaction log: %v", err)
	}
	feedback, err := store.NewFeedbackLog(dir)
	if err != nil {
		t.Fatalf("open feedback log: %v", err)
	}
	t.Cleanup(func() {
		users.Close()
		accounts.Close()
		loans.Close()
		txlog.Close()
		feedback.Close()
	})

	sessions := session.NewRegistry()
	log := zerolog.Nop()

	return &fixture{
		users:    users,
		accounts: accounts,
		loans:    loans,
		txlog:    txlog,
		feedback: feedback,
		sessions: sessions,
		auth:     NewAuthService(users, sessions),
		customer: NewCustomerService(accounts, users, loans, txlog, feedback, log),
		employee: NewEmployeeService(users, accounts, loans, txlog, log),
		manager:  NewManagerService(users, loans, feedback),
		admin:    NewAdminService(users, accounts),
	}
}

// seedUser writes a user at its exact id with the given plaintext password.
func (f *fixture) seedUser(t *testing.T, id int, role domain.Role, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	err = f.users.Put(&domain.User{
		ID:           id,
		Role:         role,
		Username:     strconv.Itoa(id),
		PasswordHash: string(hash),
		Name:         "user " + strconv.Itoa(id),
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}

// seedCustomer writes an active customer and a funded account.
func (f *fixture) seedCustomer(t *testing.T, id int, balance float64) {
	t.Helper()
	f.seedUser(t, id, domain.RoleCustomer, "pass", true)
	if err := f.accounts.Create(&domain.Account{AccountID: id, CustomerID: id, Balance: balance}); err != nil {
		t.Fatalf("seed account %d: %v", id, err)
	}
}
