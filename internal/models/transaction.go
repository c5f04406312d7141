package models

import "time"

// TransactionType is either "expense" or "revenue".
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeRevenue TransactionType = "revenue"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeRevenue
}

// Transaction is a single income or expense entry owned by one user.
// Date is a calendar date in YYYY-MM-DD form, not a timestamp.
type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
