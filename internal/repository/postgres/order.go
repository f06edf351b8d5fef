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

type OrderRepo struct {
	DB DBTX
}

const createOrder = `-- name: CreateOrder
INSERT INTO orders (id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
                    link, quantity, charge, funding_ref, provider_order_id, status)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending')
RETURNING id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
          link, quantity, charge, funding_ref, provider_order_id, status
`

func (r *OrderRepo) Create(ctx context.Context, arg repository.CreateOrderParams) (models.Order, error) {
	fundingRef := arg.FundingRef
	if fundingRef == "" {
		fundingRef = models.FundingBalance
	}

	rows, _ := r.DB.Query(ctx, createOrder,
		uuid.New(), time.Now(), arg.UserID, arg.UserEmail, arg.Category, arg.ServiceName,
		arg.ServiceID, arg.Link, arg.Quantity, arg.Charge, fundingRef, arg.ProviderOrderID)
	o, err := pgx.CollectOneRow(rows, rowToOrder)

	if err != nil {
		return o, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}

const getOrderByID = `-- name: GetOrderByID
SELECT id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
       link, quantity, charge, funding_ref, provider_order_id, status
FROM orders
WHERE id = $1
`

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, getOrderByID, id)
	o, err := pgx.CollectOneRow(rows, rowToOrder)

	switch {
	case err == nil:
		return o, nil
	case errors.Is(err, pgx.ErrNoRows):
		return o, apperrors.ErrOrderNotFound
	default:
		return o, fmt.Errorf("db error: %w", err)
	}
}

const listOrdersByUser = `-- name: ListOrdersByUser
SELECT id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
       link, quantity, charge, funding_ref, provider_order_id, status
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, _ := r.DB.Query(ctx, listOrdersByUser, userID)
	orders, err := pgx.CollectRows(rows, rowToOrder)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return orders, nil
}

const listOrders = `-- name: ListOrders
SELECT id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
       link, quantity, charge, funding_ref, provider_order_id, status
FROM orders
WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])
ORDER BY modified_at ASC
LIMIT NULLIF($2, 0)
`

func (r *OrderRepo) List(ctx context.Context, opts repository.ListOrdersOpts) ([]models.Order, error) {
	statuses := opts.Statuses
	if statuses == nil {
		statuses = []string{}
	}

	rows, _ := r.DB.Query(ctx, listOrders, statuses, opts.Limit)
	orders, err := pgx.CollectRows(rows, rowToOrder)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return orders, nil
}

// The guard keeps terminal orders frozen: a stale or erroring poll result can
// never move an order backward out of completed/canceled.
const updateOrderStatus = `-- name: UpdateOrderStatus
UPDATE orders
SET status = $2, modified_at = $3
WHERE id = $1 AND status = ANY($4::text[])
RETURNING id, created_at, modified_at, user_id, user_email, category, service_name, service_id,
          link, quantity, charge, funding_ref, provider_order_id, status
`

func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, updateOrderStatus, id, status, time.Now(), models.InProgressStatuses)
	o, err := pgx.CollectOneRow(rows, rowToOrder)

	switch {
	case err == nil:
		return o, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Guard failed: order missing or already terminal, return it as is
		return r.GetByID(ctx, id)
	default:
		return o, fmt.Errorf("db error: %w", err)
	}
}

func rowToOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CreatedAt, &o.ModifiedAt, &o.UserID, &o.UserEmail, &o.Category,
		&o.ServiceName, &o.ServiceID, &o.Link, &o.Quantity, &o.Charge, &o.FundingRef,
		&o.ProviderOrderID, &o.Status)
	return o, err
}
