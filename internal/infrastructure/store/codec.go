package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/minibank/banking-system/internal/core/domain"
)

// On-disk record layouts. All records are fixed-size and little-endian; a
// record's byte size is part of the file format, so changing any field
// breaks every existing database file.
const (
	UserRecordSize        = 180
	AccountRecordSize     = 16
	TransactionRecordSize = 48
	LoanRecordSize        = 32
	FeedbackRecordSize    = 256
)

const (
	usernameLen = 32
	passwordLen = 72 // bcrypt hashes are 60 bytes, NUL padded
	nameLen     = 64
	txTypeLen   = 16
	statusLen   = 12
	feedbackLen = 240
)

type userRecord struct {
	ID           int32
	Role         int32
	Username     [usernameLen]byte
	PasswordHash [passwordLen]byte
	Name         [nameLen]byte
	Active       int32
}

type accountRecord struct {
	AccountID  int32
	CustomerID int32
	Balance    float64
}

type transactionRecord struct {
	ID         int32
	AccountID  int32
	Timestamp  int64
	Type       [txTypeLen]byte
	Amount     float64
	NewBalance float64
}

type loanRecord struct {
	ID                 int32
	CustomerID         int32
	Amount             float64
	Status             [statusLen]byte
	AssignedEmployeeID int32
}

type feedbackRecord struct {
	ID         int32
	CustomerID int32
	Message    [feedbackLen]byte
	Timestamp  int64
}

// encodeRecord serializes a fixed-size record struct. binary.Write cannot
// fail for these types, so the error is folded into a panic: a failure here
// is a programming error in the record definition, not a runtime condition.
func encodeRecord(v any) []byte {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("store: encode record: %v", err))
	}
	return buf.Bytes()
}

func decodeRecord(b []byte, v any) error {
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("store: decode record: %w", err)
	}
	return nil
}

// putString copies s into dst truncated to fit, NUL padding the remainder.
func putString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, s)
}

// cstring returns the bytes of b up to the first NUL.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func userToRecord(u *domain.User) *userRecord {
	rec := &userRecord{
		ID:     int32(u.ID),
		Role:   int32(u.Role),
		Active: boolToInt32(u.Active),
	}
	putString(rec.Username[:], u.Username)
	putString(rec.PasswordHash[:], u.PasswordHash)
	putString(rec.Name[:], u.Name)
	return rec
}

func userFromRecord(rec *userRecord) *domain.User {
	return &domain.User{
		ID:           int(rec.ID),
		Role:         domain.Role(rec.Role),
		Username:     cstring(rec.Username[:]),
		PasswordHash: cstring(rec.PasswordHash[:]),
		Name:         cstring(rec.Name[:]),
		Active:       rec.Active != 0,
	}
}

func accountToRecord(a *domain.Account) *accountRecord {
	return &accountRecord{
		AccountID:  int32(a.AccountID),
		CustomerID: int32(a.CustomerID),
		Balance:    a.Balance,
	}
}

func accountFromRecord(rec *accountRecord) *domain.Account {
	return &domain.Account{
		AccountID:  int(rec.AccountID),
		CustomerID: int(rec.CustomerID),
		Balance:    rec.Balance,
	}
}

func transactionFromRecord(rec *transactionRecord) domain.Transaction {
	return domain.Transaction{
		ID:         int(rec.ID),
		AccountID:  int(rec.AccountID),
		Timestamp:  time.Unix(rec.Timestamp, 0).UTC(),
		Type:       cstring(rec.Type[:]),
		Amount:     rec.Amount,
		NewBalance: rec.NewBalance,
	}
}

func loanToRecord(l *domain.Loan) *loanRecord {
	rec := &loanRecord{
		ID:                 int32(l.ID),
		CustomerID:         int32(l.CustomerID),
		Amount:             l.Amount,
		AssignedEmployeeID: int32(l.AssignedEmployeeID),
	}
	putString(rec.Status[:], string(l.Status))
	return rec
}

func loanFromRecord(rec *loanRecord) *domain.Loan {
	return &domain.Loan{
		ID:                 int(rec.ID),
		CustomerID:         int(rec.CustomerID),
		Amount:             rec.Amount,
		Status:             domain.LoanStatus(cstring(rec.Status[:])),
		AssignedEmployeeID: int(rec.AssignedEmployeeID),
	}
}

func feedbackFromRecord(rec *feedbackRecord) domain.Feedback {
	return domain.Feedback{
		ID:         int(rec.ID),
		CustomerID: int(rec.CustomerID),
		Message:    cstring(rec.Message[:]),
		Timestamp:  time.Unix(rec.Timestamp, 0).UTC(),
	}
}

func usernameFor(id int) string {
	return strconv.Itoa(id)
}
