package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
)

type TransactionRepo struct {
	DB DBTX
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (id, created_at, user_id, user_email, method, amount, reference, status, applied)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', false)
RETURNING id, created_at, reviewed_at, user_id, user_email, method, amount, reference, status, applied
`

func (r *TransactionRepo) Create(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, createTransaction,
		uuid.New(), time.Now(), arg.UserID, arg.UserEmail, arg.Method, arg.Amount, arg.Reference)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		return tr, fmt.Errorf("db error: %w", err)
	}

	return tr, nil
}

const getTransactionByID = `-- name: GetTransactionByID
SELECT id, created_at, reviewed_at, user_id, user_email, method, amount, reference, status, applied
FROM transactions
WHERE id = $1
`

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, getTransactionByID, id)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		return tr, apperrors.ErrTransactionNotFound
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

const listAllTransactions = `-- name: ListAllTransactions
SELECT id, created_at, reviewed_at, user_id, user_email, method, amount, reference, status, applied
FROM transactions
ORDER BY created_at DESC
`

func (r *TransactionRepo) ListAll(ctx context.Context) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listAllTransactions)
	trs, err := pgx.CollectRows(rows, rowToTransaction)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trs, nil
}

const listTransactionsByEmail = `-- name: ListTransactionsByEmail
SELECT id, created_at, reviewed_at, user_id, user_email, method, amount, reference, status, applied
FROM transactions
WHERE user_email = $1
ORDER BY created_at DESC
`

func (r *TransactionRepo) ListByEmail(ctx context.Context, email string) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactionsByEmail, email)
	trs, err := pgx.CollectRows(rows, rowToTransaction)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trs, nil
}

// The status guard makes the transition one-shot: a retried or concurrent
// review matches zero rows and the credit can never be applied twice.
const setTransactionReviewed = `-- name: SetTransactionReviewed
UPDATE transactions
SET status = $2, applied = $3, reviewed_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING id, created_at, reviewed_at, user_id, user_email, method, amount, reference, status, applied
`

func (r *TransactionRepo) SetReviewed(ctx context.Context, id uuid.UUID, status string, applied bool) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, setTransactionReviewed, id, status, applied, time.Now())
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Guard failed: the transaction is gone or already terminal
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return tr, getErr
		}
		return existing, apperrors.ErrTransactionAlreadyReviewed
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.ReviewedAt, &t.UserID, &t.UserEmail,
		&t.Method, &t.Amount, &t.Reference, &t.Status, &t.Applied)
	return t, err
}
