package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses use the reseller panel vocabulary, lower-cased.
// The panel reports more labels than these (e.g. "partial"); anything not
// listed in InProgressStatuses is treated as terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderInProgress = "in progress"
	OrderCompleted  = "completed"
	OrderCanceled   = "canceled"
	OrderPartial    = "partial"
)

// FundingBalance marks an order paid from the wallet balance instead of
// referencing a specific top-up transaction.
const FundingBalance = "BALANCE"

// InProgressStatuses are the order statuses worth polling the reseller for.
var InProgressStatuses = []string{OrderPending, OrderProcessing, OrderInProgress}

// Order is one placed reseller order. ProviderOrderID is the id the reseller
// panel returned at placement time and is the key for status polling.
type Order struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	ModifiedAt      time.Time
	UserID          uuid.UUID
	UserEmail       string
	Category        string
	ServiceName     string
	ServiceID       string
	Link            string
	Quantity        int
	Charge          decimal.Decimal
	FundingRef      string
	ProviderOrderID string
	Status          string
}

func (o Order) IsInProgress() bool {
	for _, s := range InProgressStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
