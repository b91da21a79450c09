package handler

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/service"
)

// ManagerHandler serves operations 31-36.
type ManagerHandler struct {
	svc *service.ManagerService
	log zerolog.Logger
}

func NewManagerHandler(svc *service.ManagerService, log zerolog.Logger) *ManagerHandler {
	return &ManagerHandler{svc: svc, log: log}
}

func (h *ManagerHandler) Handle(req *protocol.Request) *protocol.Response {
	switch req.Op {
	case protocol.OpMgrActivateUser, protocol.OpMgrDeactivateUser:
		var p protocol.TargetPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		target := int(p.TargetUserID)
		activate := req.Op == protocol.OpMgrActivateUser
		if err := h.svc.SetUserActive(target, activate); err != nil {
			if errors.Is(err, domain.ErrAlreadyActive) {
				return protocol.Fail(fmt.Sprintf("User %d is already active.", target))
			}
			if errors.Is(err, domain.ErrAlreadyInactive) {
				return protocol.Fail(fmt.Sprintf("User %d is already deactivated.", target))
			}
			return failure(h.log, req.Op, err)
		}
		if activate {
			return protocol.OK(fmt.Sprintf("User %d activated.", target), nil)
		}
		return protocol.OK(fmt.Sprintf("User %d deactivated.", target), nil)

	case protocol.OpMgrAssignLoan:
		var p protocol.LoanAssignPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		if err := h.svc.AssignLoan(int(p.LoanID), int(p.EmployeeID)); err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Loan %d assigned to employee %d.", p.LoanID, p.EmployeeID),
			nil,
		)

	case protocol.OpMgrReviewFeedback:
		entries, total, err := h.svc.Feedback(protocol.MaxFeedback)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d feedback entry(ies).", total),
			feedbackList(entries, total),
		)

	case protocol.OpMgrViewPendingLoans:
		loans, total, err := h.svc.PendingLoans(protocol.MaxLoans)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d pending loan(s).", total),
			loanList(loans, total),
		)

	case protocol.OpMgrViewUserList:
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
