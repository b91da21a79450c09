package handler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/service"
)

// EmployeeHandler serves operations 21-25.
type EmployeeHandler struct {
	svc *service.EmployeeService
	log zerolog.Logger
}

func NewEmployeeHandler(svc *service.EmployeeService, log zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, log: log}
}

func (h *EmployeeHandler) Handle(req *protocol.Request) *protocol.Response {
	employeeID := int(req.UserID)

	switch req.Op {
	case protocol.OpEmpAddCustomer:
		var p protocol.UserPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		in := newCustomerInput{
			Name:     protocol.CString(p.Name[:]),
			Password: protocol.CString(p.Password[:]),
		}
		if err := checkInput(in); err != nil {
			return protocol.Fail(err.Error())
		}
		id, err := h.svc.AddCustomer(in.Name, in.Password)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(fmt.Sprintf("Customer created. ID: %d", id), nil)

	case protocol.OpEmpModCustomer:
		var p protocol.UserPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		in := nameInput{Name: protocol.CString(p.Name[:])}
		if err := checkInput(in); err != nil {
			return protocol.Fail(err.Error())
		}
		if err := h.svc.ModifyCustomer(int(p.ID), in.Name); err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK("Customer details updated.", nil)

	case protocol.OpEmpProcessLoan:
		var p protocol.LoanActionPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		approve := p.Approve != 0
		if err := h.svc.ProcessLoan(employeeID, int(p.LoanID), approve); err != nil {
			return failure(h.log, req.Op, err)
		}
		if approve {
			return protocol.OK("Loan approved. Funds deposited to customer account.", nil)
		}
		return protocol.OK("Loan rejected.", nil)

	case protocol.OpEmpViewCustTx:
		var p protocol.TargetPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		txs, total, err := h.svc.CustomerTransactions(int(p.TargetUserID), protocol.MaxTransactions)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d transaction(s).", total),
			txList(txs, total),
		)

	case protocol.OpEmpViewAssignedLoans:
		loans, total, err := h.svc.AssignedLoans(employeeID, protocol.MaxLoans)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d assigned loan(s).", total),
			loanList(loans, total),
		)
	}

	return protocol.Fail("Unknown operation.")
}

type newCustomerInput struct {
	Name     string `validate:"required"`
	Password string `validate:"required,min=4"`
}

type nameInput struct {
	Name string `validate:"required"`
}
