package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const ensureUser = `-- name: EnsureUser
INSERT INTO users (id, email, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email, display_name = EXCLUDED.display_name
RETURNING id, created_at, email, display_name, balance
`

func (r *UserRepo) EnsureUser(ctx context.Context, id uuid.UUID, email string, displayName string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, ensureUser, id, email, displayName)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		// Upsert conflicts on id only, so a fresh id reusing a stored email
		// trips the email unique constraint
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrEmailTaken
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, email, display_name, balance FROM users
WHERE id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, email, display_name, balance FROM users
WHERE email = $1
`

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

// Single conditional update: the WHERE guard is what makes concurrent debits
// safe, the balance may never pass below zero no matter how requests race.
const addToBalance = `-- name: AddToBalance
UPDATE users
SET balance = balance + $2
WHERE id = $1 AND balance + $2 >= 0
RETURNING id, created_at, email, display_name, balance
`

func (r *UserRepo) AddToBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (models.User, error) {
	rows, _ := r.DB.Query(ctx, addToBalance, userID, delta)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Guard failed: either no such user or not enough funds
		if _, getErr := r.GetByID(ctx, userID); getErr != nil {
			return user, getErr
		}
		return user, apperrors.ErrInsufficientBalance
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Email, &u.DisplayName, &u.Balance)
	return u, err
}
