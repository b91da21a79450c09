// Package api implements the TCP front end: one goroutine per connection,
// one fixed-size request block in, one fixed-size response block out.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/handler"
	"github.com/minibank/banking-system/internal/api/metrics"
	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/service"
)

// Server accepts client connections and routes their requests by role. All
// session state lives here: a connection is anonymous until a successful
// login and reverts to anonymous on logout.
type Server struct {
	addr string
	auth *service.AuthService
	log  zerolog.Logger

	customer *handler.CustomerHandler
	employee *handler.EmployeeHandler
	manager  *handler.ManagerHandler
	admin    *handler.AdminHandler
}

func NewServer(
	addr string,
	auth *service.AuthService,
	customer *handler.CustomerHandler,
	employee *handler.EmployeeHandler,
	manager *handler.ManagerHandler,
	admin *handler.AdminHandler,
	log zerolog.Logger,
) *Server {
	return &Server{
		addr:     addr,
		auth:     auth,
		log:      log,
		customer: customer,
		employee: employee,
		manager:  manager,
		admin:    admin,
	}
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", s.addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on ln. Cancelling ctx closes the listener,
// which unblocks Accept.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("api: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()
	defer conn.Close()

	log := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	log.Debug().Msg("connection opened")

	// Session state for this connection. A non-zero userID means logged in;
	// the deferred release runs exactly once, on whatever path the
	// connection dies.
	var (
		userID int
		role   domain.Role
	)
	defer func() {
		if userID != 0 {
			s.auth.Logout(userID)
			metrics.ActiveSessions.Dec()
		}
		log.Debug().Msg("connection closed")
	}()

	for {
		req, err := protocol.ReadRequest(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		if req.Op == protocol.OpExit {
			return
		}

		// Clients cannot act on behalf of another user: the id comes from
		// this connection's session, never from the block.
		req.UserID = int32(userID)

		res := s.dispatch(req, &userID, &role, log)

		result := "fail"
		if res.Success == 1 {
			result = "ok"
		}
		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(int(req.Op)), result).Inc()

		if err := protocol.WriteResponse(conn, res); err != nil {
			log.Debug().Err(err).Msg("write failed")
			return
		}
	}
}

func (s *Server) dispatch(req *protocol.Request, userID *int, role *domain.Role, log zerolog.Logger) *protocol.Response {
	if req.Op == protocol.OpLogin {
		if *userID != 0 {
			return protocol.Fail("Already logged in.")
		}
		u, err := s.auth.Login(req.UsernameString(), req.PasswordString(), domain.Role(req.Role))
		if err != nil {
			log.Info().Err(err).Str("username", req.UsernameString()).Msg("login rejected")
			switch err {
			case domain.ErrInvalidCredentials:
				return protocol.Fail("Invalid ID or password.")
			case domain.ErrRoleMismatch:
				return protocol.Fail("Login failed: ID and password do not match the selected user type.")
			case domain.ErrUserInactive:
				return protocol.Fail("Account is deactivated.")
			case domain.ErrSessionActive:
				return protocol.Fail("Login failed. Please log out from your other session to log in here.")
			}
			return protocol.Fail("Server DB error.")
		}
		*userID = u.ID
		*role = u.Role
		metrics.ActiveSessions.Inc()
		log.Info().Int("user_id", u.ID).Str("role", u.Role.String()).Msg("login")
		entry := handler.UserEntry(u)
		return protocol.OK("Login successful!", &entry)
	}

	if *userID == 0 {
		return protocol.Fail("Not logged in.")
	}

	switch req.Op {
	case protocol.OpChangePassword:
		var p protocol.PasswordPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		if err := s.auth.ChangePassword(*userID, protocol.CString(p.NewPassword[:])); err != nil {
			return protocol.Fail("Password change failed.")
		}
		return protocol.OK("Password changed successfully.", nil)

	case protocol.OpLogout:
		s.auth.Logout(*userID)
		metrics.ActiveSessions.Dec()
		log.Info().Int("user_id", *userID).Msg("logout")
		*userID = 0
		*role = 0
		return protocol.OK("Logged out.", nil)
	}

	switch *role {
	case domain.RoleCustomer:
		return s.customer.Handle(req)
	case domain.RoleEmployee:
		return s.employee.Handle(req)
	case domain.RoleManager:
		return s.manager.Handle(req)
	case domain.RoleAdmin:
		return s.admin.Handle(req)
	}
	return protocol.Fail("Unknown user role.")
}
