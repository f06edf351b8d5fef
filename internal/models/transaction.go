package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted for manual top-ups
const (
	MethodBkash = "bkash"
	MethodNagad = "nagad"
)

// Top-up transaction statuses
// 'pending' is the only non terminal status: once a transaction is completed
// or rejected it must never change again
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionRejected  = "rejected"
)

// Transaction is one claimed manual payment awaiting admin review.
// Reference is whatever the user typed; it is never checked against the real
// payment network. Applied is set together with the balance credit and
// guards against crediting twice.
type Transaction struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	ReviewedAt *time.Time
	UserID     uuid.UUID
	UserEmail  string
	Method     string
	Amount     decimal.Decimal
	Reference  string
	Status     string
	Applied    bool
}

func (t Transaction) IsTerminal() bool {
	return t.Status == TransactionCompleted || t.Status == TransactionRejected
}
