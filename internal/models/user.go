package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a storefront profile. Identity is assigned by the external auth
// provider; the row is created on first authenticated request and never
// deleted. Balance is mutated only by order placement (debit), its
// compensation and admin top-up review (credit).
type User struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Email       string
	DisplayName string
	Balance     decimal.Decimal
}
