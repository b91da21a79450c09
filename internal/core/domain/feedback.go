package domain

import "time"

// Feedback is an append-only customer message, never mutated.
type Feedback struct {
	ID         int
	CustomerID int
	Message    string
	Timestamp  time.Time
}
