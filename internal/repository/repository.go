package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/models"
)

// Storage bundles all repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Transaction() TransactionRepo
	Order() OrderRepo

	// InTx runs fn with a Storage bound to a single database transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create the profile if it does not exist yet, refresh email and display
	// name otherwise. Balance is never touched here.
	EnsureUser(ctx context.Context, id uuid.UUID, email string, displayName string) (models.User, error)

	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// AddToBalance applies delta (negative for debit) in a single atomic
	// update. Must return apperrors.ErrInsufficientBalance if the balance
	// would go negative and perform no mutation in that case.
	AddToBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (models.User, error)
}

type CreateTransactionParams struct {
	UserID    uuid.UUID
	UserEmail string
	Method    string
	Amount    decimal.Decimal
	Reference string
}

// Top-up transaction repository interface
type TransactionRepo interface {
	// Create transaction in 'pending' state with applied=false
	Create(ctx context.Context, arg CreateTransactionParams) (models.Transaction, error)

	// If transaction not found must return apperrors.ErrTransactionNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Transaction, error)

	// Newest first
	ListAll(ctx context.Context) ([]models.Transaction, error)
	ListByEmail(ctx context.Context, email string) ([]models.Transaction, error)

	// SetReviewed transitions the transaction from 'pending' to the given
	// terminal status exactly once.
	// If the transaction is already terminal must return
	// apperrors.ErrTransactionAlreadyReviewed and keep the row unchanged.
	SetReviewed(ctx context.Context, id uuid.UUID, status string, applied bool) (models.Transaction, error)
}

type CreateOrderParams struct {
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
}

type ListOrdersOpts struct {
	// Only orders in one of these statuses; empty means all
	Statuses []string

	// Max orders to return; zero means no limit
	Limit int
}

// Order repository interface
type OrderRepo interface {
	Create(ctx context.Context, arg CreateOrderParams) (models.Order, error)

	// If order not found must return apperrors.ErrOrderNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Order, error)

	// Newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, opts ListOrdersOpts) ([]models.Order, error)

	// UpdateStatus overwrites the status only while the current status is
	// still in progress; a terminal order is returned unchanged.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (models.Order, error)
}
