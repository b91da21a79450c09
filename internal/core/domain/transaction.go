package domain

import "time"

// Transaction type tags, stored verbatim in the ledger.
const (
	TxDeposit     = "DEPOSIT"
	TxWithdraw    = "WITHDRAW"
	TxTransferOut = "TRANSFER_OUT"
	TxTransferIn  = "TRANSFER_IN"
	TxLoanDeposit = "LOAN_DEPOSIT"
)

// Transaction is an immutable audit log entry. IDs are dense and 1-based,
// assigned in append order.
type Transaction struct {
	ID         int
	AccountID  int
	Timestamp  time.Time
	Type       string
	Amount     float64
	NewBalance float64
}
