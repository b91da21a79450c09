package domain

import "errors"

// Authentication and session errors. ErrSessionActive is deliberately
// distinct from ErrInvalidCredentials so a client can tell the two apart.
var (
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrRoleMismatch       = errors.New("credentials do not match the selected user type")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrSessionActive      = errors.New("user already logged in elsewhere")
)

// Record lookup errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrLoanNotFound    = errors.New("loan not found")
)

// Validation errors.
var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRecipient  = errors.New("invalid recipient id")
	ErrSelfTransfer      = errors.New("cannot transfer to self")
	ErrRecipientNotFound = errors.New("recipient user not found")
	ErrRecipientInactive = errors.New("recipient account is deactivated")
	ErrAccountMismatch   = errors.New("account id mismatch")
	ErrLoanNotPending    = errors.New("loan is not pending")
	ErrLoanNotAssigned   = errors.New("loan is not assigned to this employee")
	ErrNotEmployee       = errors.New("assignee is not an employee")
	ErrNotCustomer       = errors.New("target is not a customer")
	ErrAlreadyActive     = errors.New("user is already activated")
	ErrAlreadyInactive   = errors.New("user is already deactivated")
	ErrInvalidRole       = errors.New("invalid role")
	ErrIDExhausted       = errors.New("no ids available for this role")
)
