// Package handler routes decoded protocol requests to the role services and
// shapes their results back into response blocks. Handlers never touch the
// connection; the server owns I/O and session state.
package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/metrics"
	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/core/service"
)

// CustomerHandler serves operations 11-18.
type CustomerHandler struct {
	svc *service.CustomerService
	log zerolog.Logger
}

func NewCustomerHandler(svc *service.CustomerService, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

func (h *CustomerHandler) Handle(req *protocol.Request) *protocol.Response {
	userID := int(req.UserID)

	switch req.Op {
	case protocol.OpCustViewBalance:
		balance, err := h.svc.Balance(userID)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Balance: $%.2f", balance),
			&protocol.BalancePayload{Balance: balance},
		)

	case protocol.OpCustDeposit:
		var p protocol.AmountPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		balance, err := h.svc.Deposit(userID, p.Amount)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Deposit successful. New balance: $%.2f", balance),
			&protocol.BalancePayload{Balance: balance},
		)

	case protocol.OpCustWithdraw:
		var p protocol.AmountPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		balance, err := h.svc.Withdraw(userID, p.Amount)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Withdrawal successful. New balance: $%.2f", balance),
			&protocol.BalancePayload{Balance: balance},
		)

	case protocol.OpCustTransfer:
		var p protocol.TransferPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		start := time.Now()
		balance, err := h.svc.Transfer(userID, int(p.ToAccountID), p.Amount)
		metrics.TransferDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			// The sender's own account missing means the database is
			// corrupt, not that the request was bad; the message says so.
			if errors.Is(err, domain.ErrAccountNotFound) {
				return protocol.Fail("Transfer failed: Sender account invalid.")
			}
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return protocol.Fail("Insufficient funds for transfer.")
			}
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Transfer successful. New balance: $%.2f", balance),
			&protocol.BalancePayload{Balance: balance},
		)

	case protocol.OpCustApplyLoan:
		var p protocol.AmountPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		loanID, err := h.svc.ApplyLoan(userID, p.Amount)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(fmt.Sprintf("Loan application submitted. Loan ID: %d", loanID), nil)

	case protocol.OpCustAddFeedback:
		var p protocol.FeedbackPayload
		if err := protocol.UnmarshalPayload(req.Payload[:], &p); err != nil {
			return protocol.Fail("Malformed request payload.")
		}
		in := feedbackInput{Message: protocol.CString(p.Message[:])}
		if err := checkInput(in); err != nil {
			return protocol.Fail(err.Error())
		}
		if _, err := h.svc.AddFeedback(userID, in.Message); err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK("Feedback submitted. Thank you!", nil)

	case protocol.OpCustViewHistory:
		txs, total, err := h.svc.History(userID, protocol.MaxTransactions)
		if err != nil {
			return failure(h.log, req.Op, err)
		}
		return protocol.OK(
			fmt.Sprintf("Found %d transaction(s).", total),
			txList(txs, total),
		)
	}

	return protocol.Fail("Unknown operation.")
}

type feedbackInput struct {
	Message string `validate:"required"`
}
