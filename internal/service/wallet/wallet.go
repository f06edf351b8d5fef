package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
)

// Minimum claimed amount accepted for a manual top-up, in BDT
var minTopUpAmount = decimal.NewFromInt(20)

// Shortest reference code worth queueing for review
const minReferenceLen = 4

// Review decisions
const (
	DecisionComplete = models.TransactionCompleted
	DecisionReject   = models.TransactionRejected
)

type WalletService struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewService(storage repository.Storage, l logger.Logger) *WalletService {
	return &WalletService{
		storage: storage,
		logger:  l,
	}
}

// SubmitTopUp queues a claimed manual payment for admin review.
// It never touches the balance: the caller is told the claim is pending,
// not completed. The persistence result is returned, not fire-and-forget.
func (s *WalletService) SubmitTopUp(ctx context.Context, user *models.User, method string, amount decimal.Decimal, reference string) (models.Transaction, error) {
	var tr models.Transaction

	switch method {
	case models.MethodBkash, models.MethodNagad:
	default:
		return tr, fmt.Errorf("%w: %q", apperrors.ErrMethodUnknown, method)
	}

	if amount.LessThan(minTopUpAmount) {
		return tr, fmt.Errorf("%w: minimum is %s", apperrors.ErrAmountBelowMinimum, minTopUpAmount)
	}

	reference = strings.TrimSpace(reference)
	if len(reference) < minReferenceLen {
		return tr, fmt.Errorf("%w: at least %d characters", apperrors.ErrReferenceInvalid, minReferenceLen)
	}

	tr, err := s.storage.Transaction().Create(ctx, repository.CreateTransactionParams{
		UserID:    user.ID,
		UserEmail: user.Email,
		Method:    method,
		Amount:    amount,
		Reference: reference,
	})
	if err != nil {
		return tr, fmt.Errorf("can't queue top-up: %w", err)
	}

	s.logger.Info("Top-up queued for review", "transaction_id", tr.ID, "user_email", tr.UserEmail, "amount", tr.Amount)
	return tr, nil
}

// Review applies an admin decision to a pending transaction exactly once.
//
// The status transition and the balance credit run in one database
// transaction, with the transition guarded on the current status being
// pending. A repeated decision, or two admin sessions racing on the same
// transaction, makes the guard fail: the loser gets
// apperrors.ErrTransactionAlreadyReviewed and no second credit can happen.
func (s *WalletService) Review(ctx context.Context, transactionID uuid.UUID, decision string) (models.Transaction, error) {
	var reviewed models.Transaction

	switch decision {
	case DecisionComplete, DecisionReject:
	default:
		return reviewed, fmt.Errorf("unknown review decision: %q", decision)
	}

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		applied := decision == DecisionComplete

		tr, err := storage.Transaction().SetReviewed(ctx, transactionID, decision, applied)
		if err != nil {
			return err
		}

		if applied {
			if _, err := storage.User().AddToBalance(ctx, tr.UserID, tr.Amount); err != nil {
				return fmt.Errorf("can't credit balance: %w", err)
			}
		}

		reviewed = tr
		return nil
	})
	if err != nil {
		return reviewed, err
	}

	s.logger.Info("Top-up reviewed", "transaction_id", reviewed.ID, "decision", decision, "amount", reviewed.Amount)
	return reviewed, nil
}

// ListAll returns every top-up transaction, newest first
func (s *WalletService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return s.storage.Transaction().ListAll(ctx)
}

// ListForUser returns the transactions claimed by one email, newest first
func (s *WalletService) ListForUser(ctx context.Context, email string) ([]models.Transaction, error) {
	return s.storage.Transaction().ListByEmail(ctx, email)
}

// GetBalance returns the current profile with its balance
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetByID(ctx, userID)
}
