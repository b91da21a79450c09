package domain

// LoanStatus is the lifecycle state of a loan application.
type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
)

// Loan is created PENDING by a customer, assigned by a manager, then
// approved or rejected by the assigned employee. Loan ids are dense and
// 1-based, matching append order: record N lives at slot N-1, which is what
// makes in-place status updates possible.
type Loan struct {
	ID                 int
	CustomerID         int
	Amount             float64
	Status             LoanStatus
	AssignedEmployeeID int // 0 = unassigned
}
