package handler

import (
	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
)

// Converters from domain records to wire payload entries. Passwords never
// cross the wire outbound: UserEntry leaves the field zeroed.

func UserEntry(u *domain.User) protocol.UserPayload {
	var p protocol.UserPayload
	p.ID = int32(u.ID)
	p.Role = int32(u.Role)
	protocol.PutString(p.Username[:], u.Username)
	protocol.PutString(p.Name[:], u.Name)
	if u.Active {
		p.Active = 1
	}
	return p
}

func userList(users []domain.User, total int) *protocol.UserList {
	l := &protocol.UserList{Count: int32(total)}
	for i := range users {
		l.Items[i] = UserEntry(&users[i])
	}
	return l
}

func txList(txs []domain.Transaction, total int) *protocol.TransactionList {
	l := &protocol.TransactionList{Count: int32(total)}
	for i, tx := range txs {
		e := protocol.TransactionEntry{
			ID:         int32(tx.ID),
			AccountID:  int32(tx.AccountID),
			Timestamp:  tx.Timestamp.Unix(),
			Amount:     tx.Amount,
			NewBalance: tx.NewBalance,
		}
		protocol.PutString(e.Type[:], tx.Type)
		l.Items[i] = e
	}
	return l
}

func loanList(loans []domain.Loan, total int) *protocol.LoanList {
	l := &protocol.LoanList{Count: int32(total)}
	for i, ln := range loans {
		e := protocol.LoanEntry{
			ID:                 int32(ln.ID),
			CustomerID:         int32(ln.CustomerID),
			Amount:             ln.Amount,
			AssignedEmployeeID: int32(ln.AssignedEmployeeID),
		}
		protocol.PutString(e.Status[:], string(ln.Status))
		l.Items[i] = e
	}
	return l
}

func feedbackList(entries []domain.Feedback, total int) *protocol.FeedbackList {
	l := &protocol.FeedbackList{Count: int32(total)}
	for i, fb := range entries {
		e := protocol.FeedbackEntry{
			ID:         int32(fb.ID),
			CustomerID: int32(fb.CustomerID),
			Timestamp:  fb.Timestamp.Unix(),
		}
		protocol.PutString(e.Message[:], fb.Message)
		l.Items[i] = e
	}
	return l
}
