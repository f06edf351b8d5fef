package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
)

type userRepo struct {
	s *Storage
}

func (r *userRepo) EnsureUser(ctx context.Context, id uuid.UUID, email string, displayName string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		u.Email = email
		u.DisplayName = displayName
		return *u, nil
	}

	for _, u := range r.s.users {
		if u.Email == email {
			return models.User{}, apperrors.ErrEmailTaken
		}
	}

	u := &models.User{
		ID:          id,
		CreatedAt:   time.Now(),
		Email:       email,
		DisplayName: displayName,
		Balance:     decimal.Zero,
	}
	r.s.users[id] = u

	return *u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}

	return *u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return *u, nil
		}
	}

	return models.User{}, apperrors.ErrUserNotFound
}

func (r *userRepo) AddToBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}

	next := u.Balance.Add(delta)
	if next.IsNegative() {
		return models.User{}, apperrors.ErrInsufficientBalance
	}
	u.Balance = next

	return *u, nil
}
