package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
)

type orderRepo struct {
	s *Storage
}

func (r *orderRepo) Create(ctx context.Context, arg repository.CreateOrderParams) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	fundingRef := arg.FundingRef
	if fundingRef == "" {
		fundingRef = models.FundingBalance
	}

	now := time.Now()
	o := &models.Order{
		ID:              uuid.New(),
		CreatedAt:       now,
		ModifiedAt:      now,
		UserID:          arg.UserID,
		UserEmail:       arg.UserEmail,
		Category:        arg.Category,
		ServiceName:     arg.ServiceName,
		ServiceID:       arg.ServiceID,
		Link:            arg.Link,
		Quantity:        arg.Quantity,
		Charge:          arg.Charge,
		FundingRef:      fundingRef,
		ProviderOrderID: arg.ProviderOrderID,
		Status:          models.OrderPending,
	}
	r.s.orders[o.ID] = o
	r.s.orderSeq = append(r.s.orderSeq, o.ID)

	return *o, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return models.Order{}, apperrors.ErrOrderNotFound
	}

	return *o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orders := make([]models.Order, 0)
	for i := len(r.s.orderSeq) - 1; i >= 0; i-- {
		o := r.s.orders[r.s.orderSeq[i]]
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}

	return orders, nil
}

func (r *orderRepo) List(ctx context.Context, opts repository.ListOrdersOpts) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match := func(status string) bool {
		if len(opts.Statuses) == 0 {
			return true
		}
		for _, s := range opts.Statuses {
			if s == status {
				return true
			}
		}
		return false
	}

	orders := make([]models.Order, 0)
	for _, id := range r.s.orderSeq {
		o := r.s.orders[id]
		if !match(o.Status) {
			continue
		}
		orders = append(orders, *o)
		if opts.Limit > 0 && len(orders) == opts.Limit {
			break
		}
	}

	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return models.Order{}, apperrors.ErrOrderNotFound
	}

	// Terminal orders stay as they are
	if !o.IsInProgress() {
		return *o, nil
	}

	o.Status = status
	o.ModifiedAt = time.Now()

	return *o, nil
}
