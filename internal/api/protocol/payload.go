package protocol

// Request payload shapes, selected by Op.

// AmountPayload carries deposit, withdraw and loan-application amounts.
type AmountPayload struct {
	Amount float64
}

// TransferPayload carries a transfer target and amount.
type TransferPayload struct {
	ToAccountID int32
	Amount      float64
}

// UserPayload mirrors a full user record. It doubles as the request body for
// add/modify-user operations (Password carries a plaintext password there)
// and as the response body for login and user listings (Password is always
// blank on the way out).
type UserPayload struct {
	ID       int32
	Role     int32
	Username [UsernameLen]byte
	Password [PasswordLen]byte
	Name     [NameLen]byte
	Active   int32
}

// TargetPayload carries a target user id.
type TargetPayload struct {
	TargetUserID int32
}

// RolePayload selects the role filter for user listings.
type RolePayload struct {
	Role int32
}

// LoanAssignPayload carries a manager's loan assignment.
type LoanAssignPayload struct {
	LoanID     int32
	EmployeeID int32
}

// LoanActionPayload carries an employee's approve/reject decision.
type LoanActionPayload struct {
	LoanID  int32
	Approve int32
}

// FeedbackPayload carries a customer's free-text feedback.
type FeedbackPayload struct {
	Message [FeedbackLen]byte
}

// PasswordPayload carries a password change.
type PasswordPayload struct {
	NewPassword [PasswordLen]byte
}

// Response payload shapes, selected by the request's Op.

// BalancePayload carries a single balance.
type BalancePayload struct {
	Balance float64
}

// TransactionEntry is one ledger entry on the wire.
type TransactionEntry struct {
	ID         int32
	AccountID  int32
	Timestamp  int64
	Type       [TxTypeLen]byte
	Amount     float64
	NewBalance float64
}

// TransactionList carries up to MaxTransactions entries; Count is the true
// total matched.
type TransactionList struct {
	Count int32
	Items [MaxTransactions]TransactionEntry
}

// LoanEntry is one loan record on the wire.
type LoanEntry struct {
	ID                 int32
	CustomerID         int32
	Amount             float64
	Status             [StatusLen]byte
	AssignedEmployeeID int32
}

// LoanList carries up to MaxLoans entries; Count is the true total matched.
type LoanList struct {
	Count int32
	Items [MaxLoans]LoanEntry
}

// FeedbackEntry is one feedback record on the wire.
type FeedbackEntry struct {
	ID         int32
	CustomerID int32
	Message    [FeedbackLen]byte
	Timestamp  int64
}

// FeedbackList carries up to MaxFeedback entries; Count is the true total.
type FeedbackList struct {
	Count int32
	Items [MaxFeedback]FeedbackEntry
}

// UserList carries up to MaxUsers entries; Count is the true total matched.
type UserList struct {
	Count int32
	Items [MaxUsers]UserPayload
}

// OK builds a success response with msg and, when payload is non-nil, the
// encoded payload.
func OK(msg string, payload any) *Response {
	res := &Response{Success: 1}
	PutString(res.Message[:], msg)
	if payload != nil {
		if err := MarshalPayload(res.Payload[:], payload); err != nil {
			// Payload areas are sized for the largest list; overflow is a
			// programming error, not a runtime condition.
			panic(err)
		}
	}
	return res
}

// Fail builds a failure response with msg.
func Fail(msg string) *Response {
	res := &Response{Success: 0}
	PutString(res.Message[:], msg)
	return res
}
