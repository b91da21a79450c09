package handler

import (
	"github.com/rs/zerolog"

	"github.com/minibank/banking-system/internal/api/protocol"
	"github.com/minibank/banking-system/internal/core/domain"
)

// failMessages maps domain sentinels to the exact client-facing text. The
// texts are part of the protocol contract: clients pattern on some of them.
var failMessages = map[error]string{
	domain.ErrInvalidCredentials: "Invalid ID or password.",
	domain.ErrRoleMismatch:       "Login failed: ID and password do not match the selected user type.",
	domain.ErrUserInactive:       "Account is deactivated.",
	domain.ErrSessionActive:      "Login failed. Please log out from your other session to log in here.",
	domain.ErrUserNotFound:       "User not found.",
	domain.ErrAccountNotFound:    "Account not found.",
	domain.ErrLoanNotFound:       "Loan not found.",
	domain.ErrInvalidAmount:      "Amount must be greater than zero.",
	domain.ErrInsufficientFunds:  "Insufficient funds.",
	domain.ErrInvalidRecipient:   "Transfer failed: Invalid recipient ID.",
	domain.ErrSelfTransfer:       "Cannot transfer to self.",
	domain.ErrRecipientNotFound:  "Transfer failed: Recipient user not found.",
	domain.ErrRecipientInactive:  "Transfer failed: Recipient's account is deactivated.",
	domain.ErrAccountMismatch:    "Transfer failed: Account ID mismatch.",
	domain.ErrLoanNotPending:     "Loan is not pending.",
	domain.ErrLoanNotAssigned:    "This loan is not assigned to you.",
	domain.ErrNotEmployee:        "Invalid ID. You must assign to an Employee.",
	domain.ErrNotCustomer:        "Can only manage customer accounts.",
	domain.ErrInvalidRole:        "Invalid role.",
	domain.ErrIDExhausted:        "No IDs available for this role.",
}

// failure converts a service error into a failure response. Sentinels get
// their contract message; anything else is an internal fault that must not
// leak details to the client.
func failure(log zerolog.Logger, op protocol.Op, err error) *protocol.Response {
	if msg, ok := failMessages[err]; ok {
		return protocol.Fail(msg)
	}
	log.Error().Err(err).Int32("op", int32(op)).Msg("operation failed")
	return protocol.Fail("Server DB error.")
}
