package domain

// Account holds a customer's balance. AccountID always equals the owning
// customer's user id; one account exists per customer, created alongside the
// user record.
type Account struct {
	AccountID  int
	CustomerID int
	Balance    float64
}
