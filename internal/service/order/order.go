package order

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

type resellerClient interface {
	AddOrder(ctx context.Context, serviceID string, link string, quantity int) (string, error)
}

type catalogService interface {
	FindService(ctx context.Context, serviceID string) (models.Service, string, error)
}

type OrderService struct {
	storage repository.Storage
	client  resellerClient
	catalog catalogService
	logger  logger.Logger
}

func NewService(storage repository.Storage, client resellerClient, catalog catalogService, l logger.Logger) *OrderService {
	return &OrderService{
		storage: storage,
		client:  client,
		catalog: catalog,
		logger:  l,
	}
}

type PlaceParams struct {
	ServiceID  string
	Link       string
	Quantity   int
	FundingRef string
}

// Place runs the whole order workflow: validate the selection, debit the
// balance, forward the order to the reseller and record it.
//
// The debit is a single conditional update, so concurrent placements can
// never overdraw the balance. Debit and upstream placement are still two
// independent steps: if the reseller rejects the order the debit is
// compensated with one best-effort refund, and a refund failure is surfaced
// as ErrCompensationFailed rather than swallowed.
func (s *OrderService) Place(ctx context.Context, user *models.User, arg PlaceParams) (models.Order, models.User, error) {
	var order models.Order

	if strings.TrimSpace(arg.Link) == "" {
		return order, *user, apperrors.ErrLinkRequired
	}

	svc, categoryName, err := s.catalog.FindService(ctx, arg.ServiceID)
	if err != nil {
		return order, *user, err
	}

	if arg.Quantity < svc.Min || arg.Quantity > svc.Max {
		return order, *user, fmt.Errorf("%w: must be between %d and %d", apperrors.ErrQuantityOutOfRange, svc.Min, svc.Max)
	}

	charge := svc.Charge(arg.Quantity)

	// Debit first. The only place money leaves a balance.
	debited, err := s.storage.User().AddToBalance(ctx, user.ID, charge.Neg())
	if err != nil {
		return order, *user, err
	}

	providerOrderID, err := s.client.AddOrder(ctx, svc.ID, arg.Link, arg.Quantity)
	if err != nil {
		balance, err := s.compensate(ctx, user.ID, charge, err)
		return order, balance, err
	}

	order, storeErr := s.storage.Order().Create(ctx, repository.CreateOrderParams{
		UserID:          user.ID,
		UserEmail:       user.Email,
		Category:        categoryName,
		ServiceName:     svc.Name,
		ServiceID:       svc.ID,
		Link:            arg.Link,
		Quantity:        arg.Quantity,
		Charge:          charge,
		FundingRef:      arg.FundingRef,
		ProviderOrderID: providerOrderID,
	})
	if storeErr != nil {
		// The provider accepted the order already; failing the whole call now
		// would read as "order failed" to a user who will still receive it.
		s.logger.Error("Order placed upstream but not persisted",
			"error", storeErr, "provider_order_id", providerOrderID, "user_id", user.ID)
		order = models.Order{
			UserID:          user.ID,
			UserEmail:       user.Email,
			Category:        categoryName,
			ServiceName:     svc.Name,
			ServiceID:       svc.ID,
			Link:            arg.Link,
			Quantity:        arg.Quantity,
			Charge:          charge,
			FundingRef:      arg.FundingRef,
			ProviderOrderID: providerOrderID,
			Status:          models.OrderPending,
		}
	}

	return order, debited, nil
}

// compensate refunds a debit whose upstream placement failed.
// Best effort: one attempt, and a failed refund is reported loudly.
func (s *OrderService) compensate(ctx context.Context, userID uuid.UUID, charge decimal.Decimal, placeErr error) (models.User, error) {
	refunded, refundErr := s.storage.User().AddToBalance(ctx, userID, charge)
	if refundErr != nil {
		s.logger.Error("Failed to refund a debit for a rejected order",
			"error", refundErr, "user_id", userID, "charge", charge)
		return refunded, fmt.Errorf("%w: %w (refund error: %w)", apperrors.ErrCompensationFailed, placeErr, refundErr)
	}

	s.logger.Warn("Order rejected by panel, balance refunded", "user_id", userID, "charge", charge, "error", placeErr)
	return refunded, fmt.Errorf("order rejected by panel: %w", placeErr)
}

// ListOrders returns the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, user *models.User) ([]models.Order, error) {
	return s.storage.Order().ListByUser(ctx, user.ID)
}

// ListAllOrders returns every order in the system, newest first
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.storage.Order().List(ctx, repository.ListOrdersOpts{})
}

// ListInProgress returns orders whose status is still worth polling
func (s *OrderService) ListInProgress(ctx context.Context, limit int) ([]models.Order, error) {
	return s.storage.Order().List(ctx, repository.ListOrdersOpts{
		Statuses: models.InProgressStatuses,
		Limit:    limit,
	})
}

// SetStatus overwrites an order's status with the provider-reported one,
// lower-cased. Terminal orders are never moved backward.
func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, providerStatus string) (models.Order, error) {
	return s.storage.Order().UpdateStatus(ctx, orderID, strings.ToLower(providerStatus))
}
