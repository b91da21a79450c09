package handler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/service"
)

// AdminHandler serves operations 41-44.
type AdminHandler struct {
	svc *service.AdminService
	log zerolog.Logger
}

func NewAdminHandler(svc *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

func (h *AdminHandler) Handle(req *protocol.Request) *protocol.Response {
	switch req.Op {
	case protocol.OpAdminAddUser:
		var p protocol.UserPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		in := newUserInput{
			Name:     protocol.CString(p.Name[:]),
			Password: protocol.CString(p.Password[:]),
			Role:     p.Role,
		}
		if err := checkInput(in); err != nil {
			return protocol.Fail(err.Error())
		}
		id, err := h.svc.AddUser(in.Name, in.Password, domain.Role(in.Role))
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(fmt.Sprintf("User created. New ID: %d", id), nil)

	case protocol.OpAdminModUser:
		var p protocol.UserPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		in := nameInput{Name: protocol.CString(p.Name[:])}
		if err := checkInput(in); err != nil {
			return protocol.Fail(err.Error())
		}
		// An empty password keeps the stored hash.
		password := protocol.CString(p.Password[:])
		if err := h.svc.ModifyUser(int(p.ID), in.Name, password, p.Active != 0); err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(fmt.Sprintf("User %d updated.", p.ID), nil)

	case protocol.OpAdminViewUserList:
		var p protocol.RolePayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		users, total, err := h.svc.UsersByRole(domain.Role(p.Role), protocol.MaxUsers)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d user(s).", total),
			userList(users, total),
		)
	}

	return protocol.Fail("Unknown operation.")
}

type newUserInput struct {
	Name     string `validate:"required"`
	Password string `validate:"required,min=4"`
	Role     int32  `validate:"oneof=1 2 3 4"`
}
