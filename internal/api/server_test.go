package api

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/api/handler"
	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/service"
	"github.com/minibank/banking-system/internal/infrastructure/session"
	"github.com/minibank/banking-system/internal/infrastructure/store"
)

func startTestServer(t *testing.T) net.Addr {
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

	hash, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := users.Put(&domain.User{
		ID: 1001, Role: domain.RoleCustomer, Username: "1001",
		PasswordHash: string(hash), Name: "Alice", Active: true,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := accounts.Create(&domain.Account{AccountID: 1001, CustomerID: 1001, Balance: 10000}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	log := zerolog.Nop()
	sessions := session.NewRegistry()
	auth := service.NewAuthService(users, sessions)
	customerSvc := service.NewCustomerService(accounts, users, loans, txlog, feedback, log)
	employeeSvc := service.NewEmployeeService(users, accounts, loans, txlog, log)
	managerSvc := service.NewManagerService(users, loans, feedback)
	adminSvc := service.NewAdminService(users, accounts)

	srv := NewServer(
		"",
		auth,
		handler.NewCustomerHandler(customerSvc, log),
		handler.NewEmployeeHandler(employeeSvc, log),
		handler.NewManagerHandler(managerSvc, log),
		handler.NewAdminHandler(adminSvc, log),
		log,
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, ln)

	return ln.Addr()
}

func dial(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn net.Conn, req *protocol.Request) *protocol.Response {
	t.Helper()
	if err := protocol.WriteRequest(conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}
	res, err := protocol.ReadResponse(conn)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return res
}

func loginRequest(id int, password string, role domain.Role) *protocol.Request {
	req := &protocol.Request{Op: protocol.OpLogin, Role: int32(role)}
	protocol.PutString(req.Username[:], strconv.Itoa(id))
	protocol.PutString(req.Password[:], password)
	return req
}

func TestServer_RejectsAnonymousRequests(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	res := roundTrip(t, conn, &protocol.Request{Op: protocol.OpCustViewBalance})
	if res.Success != 0 || protocol.CString(res.Message[:]) != "Not logged in." {
		t.Fatalf("anonymous request not rejected: %+v", protocol.CString(res.Message[:]))
	}
}

func TestServer_LoginAndBalance(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	res := roundTrip(t, conn, loginRequest(1001, "pass", domain.RoleCustomer))
	if res.Success != 1 {
		t.Fatalf("login failed: %q", protocol.CString(res.Message[:]))
	}
	var u protocol.UserPayload
	if err := protocol.UnmarshalPayload(res.Payload[:], &u); err != nil {
		t.Fatalf("unmarshal login payload: %v", err)
	}
	if u.ID != 1001 || u.Role != int32(domain.RoleCustomer) {
		t.Fatalf("wrong login payload: %+v", u)
	}
	if protocol.CString(u.Password[:]) != "" {
		t.Fatalf("password material leaked to client")
	}

	res = roundTrip(t, conn, &protocol.Request{Op: protocol.OpCustViewBalance})
	if res.Success != 1 {
		t.Fatalf("balance failed: %q", protocol.CString(res.Message[:]))
	}
	var b protocol.BalancePayload
	if err := protocol.UnmarshalPayload(res.Payload[:], &b); err != nil {
		t.Fatalf("unmarshal balance: %v", err)
	}
	if b.Balance != 10000 {
		t.Fatalf("balance %v, want 10000", b.Balance)
	}
}

func TestServer_SpoofedUserIDIgnored(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	if res := roundTrip(t, conn, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("login failed: %q", protocol.CString(res.Message[:]))
	}

	// A forged UserID in the block must not redirect the operation.
	req := &protocol.Request{Op: protocol.OpCustViewBalance, UserID: 4001}
	res := roundTrip(t, conn, req)
	if res.Success != 1 {
		t.Fatalf("balance failed: %q", protocol.CString(res.Message[:]))
	}
	var b protocol.BalancePayload
	if err := protocol.UnmarshalPayload(res.Payload[:], &b); err != nil {
		t.Fatalf("unmarshal balance: %v", err)
	}
	if b.Balance != 10000 {
		t.Fatalf("spoofed id read another account: %v", b.Balance)
	}
}

func TestServer_SecondSessionRejected(t *testing.T) {
	addr := startTestServer(t)
	first := dial(t, addr)
	second := dial(t, addr)

	if res := roundTrip(t, first, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("first login failed")
	}
	res := roundTrip(t, second, loginRequest(1001, "pass", domain.RoleCustomer))
	if res.Success != 0 {
		t.Fatalf("second session accepted")
	}
	if got := protocol.CString(res.Message[:]); got != "Login failed. Please log out from your other session to log in here." {
		t.Fatalf("wrong message: %q", got)
	}

	// Logout on the first connection frees the id for the second.
	if res := roundTrip(t, first, &protocol.Request{Op: protocol.OpLogout}); res.Success != 1 {
		t.Fatalf("logout failed")
	}
	if res := roundTrip(t, second, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("login after logout failed: %q", protocol.CString(res.Message[:]))
	}
}

func TestServer_DisconnectReleasesSession(t *testing.T) {
	addr := startTestServer(t)

	first := dial(t, addr)
	if res := roundTrip(t, first, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("login failed")
	}
	// EXIT tears the connection down without an explicit logout.
	if err := protocol.WriteRequest(first, &protocol.Request{Op: protocol.OpExit}); err != nil {
		t.Fatalf("write exit: %v", err)
	}

	second := dial(t, addr)
	deadline := time.Now().Add(2 * time.Second)
	for {
		res := roundTrip(t, second, loginRequest(1001, "pass", domain.RoleCustomer))
		if res.Success == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never released: %q", protocol.CString(res.Message[:]))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_OperationsRoutedByRole(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	if res := roundTrip(t, conn, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("login failed")
	}

	// A customer sending a manager opcode gets the customer router's
	// rejection, not the manager behaviour.
	res := roundTrip(t, conn, &protocol.Request{Op: protocol.OpMgrViewPendingLoans})
	if res.Success != 0 || protocol.CString(res.Message[:]) != "Unknown operation." {
		t.Fatalf("cross-role op not rejected: %q", protocol.CString(res.Message[:]))
	}
}

func TestServer_DepositOverConnection(t *testing.T) {
	addr := startTestServer(t)
	conn := dial(t, addr)

	if res := roundTrip(t, conn, loginRequest(1001, "pass", domain.RoleCustomer)); res.Success != 1 {
		t.Fatalf("login failed")
	}

	req := &protocol.Request{Op: protocol.OpCustDeposit}
	if err := protocol.MarshalPayload(req.Payload[:], &protocol.AmountPayload{Amount: 250}); err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	res := roundTrip(t, conn, req)
	if res.Success != 1 {
		t.Fatalf("deposit failed: %q", protocol.CString(res.Message[:]))
	}
	if got := protocol.CString(res.Message[:]); got != "Deposit successful. New balance: $10250.00" {
		t.Fatalf("wrong message: %q", got)
	}
}
