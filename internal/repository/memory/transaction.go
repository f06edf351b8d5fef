package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
)

type transactionRepo struct {
	s *Storage
}

func (r *transactionRepo) Create(ctx context.Context, arg repository.CreateTransactionParams) (models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tr := &models.Transaction{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UserID:    arg.UserID,
		UserEmail: arg.UserEmail,
		Method:    arg.Method,
		Amount:    arg.Amount,
		Reference: arg.Reference,
		Status:    models.TransactionPending,
		Applied:   false,
	}
	r.s.transactions[tr.ID] = tr
	r.s.transactionSeq = append(r.s.transactionSeq, tr.ID)

	return *tr, nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tr, ok := r.s.transactions[id]
	if !ok {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}

	return *tr, nil
}

func (r *transactionRepo) ListAll(ctx context.Context) ([]models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.list(func(models.Transaction) bool { return true }), nil
}

func (r *transactionRepo) ListByEmail(ctx context.Context, email string) ([]models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.list(func(tr models.Transaction) bool { return tr.UserEmail == email }), nil
}

func (r *transactionRepo) SetReviewed(ctx context.Context, id uuid.UUID, status string, applied bool) (models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tr, ok := r.s.transactions[id]
	if !ok {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if tr.Status != models.TransactionPending {
		return *tr, apperrors.ErrTransactionAlreadyReviewed
	}

	now := time.Now()
	tr.Status = status
	tr.Applied = applied
	tr.ReviewedAt = &now

	return *tr, nil
}

func (r *transactionRepo) list(keep func(models.Transaction) bool) []models.Transaction {
	trs := make([]models.Transaction, 0, len(r.s.transactionSeq))
	for i := len(r.s.transactionSeq) - 1; i >= 0; i-- {
		tr := r.s.transactions[r.s.transactionSeq[i]]
		if keep(*tr) {
			trs = append(trs, *tr)
		}
	}
	return trs
}
