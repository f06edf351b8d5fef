package statusrefresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/reseller"
)

type stubClient struct {
	mu       sync.Mutex
	statuses map[string]string // provider order id -> reported status
	err      error
	calls    int
}

func (c *stubClient) GetOrderStatus(ctx context.Context, providerOrderID string) (reseller.OrderStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.err != nil {
		return reseller.OrderStatus{}, c.err
	}
	return reseller.OrderStatus{Status: c.statuses[providerOrderID]}, nil
}

type stubOrders struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]string
	updated  chan struct{}
}

func (s *stubOrders) ListInProgress(ctx context.Context, limit int) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) SetStatus(ctx context.Context, orderID uuid.UUID, providerStatus string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[orderID] = providerStatus
	s.updated <- struct{}{}
	return models.Order{ID: orderID, Status: providerStatus}, nil
}

func TestConsume(t *testing.T) {
	t.Run("refreshes each produced order", func(t *testing.T) {
		order := models.Order{ID: uuid.New(), ProviderOrderID: "23501", Status: models.OrderPending}

		client := &stubClient{statuses: map[string]string{"23501": "Completed"}}
		orders := &stubOrders{statuses: map[uuid.UUID]string{}, updated: make(chan struct{}, 1)}

		c := &Consumer{countWorkers: 2, client: client, orderService: orders, logger: logger.NewNoOp()}

		ctx, cancel := context.WithCancel(t.Context())
		in := make(chan models.Order)
		stopped := c.Consume(ctx, in)

		in <- order

		select {
		case <-orders.updated:
		case <-time.After(time.Second):
			t.Fatal("order status was not refreshed")
		}

		cancel()
		<-stopped

		require.Equal(t, "Completed", orders.statuses[order.ID])
	})

	t.Run("gateway error leaves status alone", func(t *testing.T) {
		order := models.Order{ID: uuid.New(), ProviderOrderID: "23501", Status: models.OrderPending}

		client := &stubClient{err: &reseller.Error{Code: reseller.CodeUnavailable}}
		orders := &stubOrders{statuses: map[uuid.UUID]string{}, updated: make(chan struct{}, 1)}

		c := &Consumer{countWorkers: 1, client: client, orderService: orders, logger: logger.NewNoOp()}

		ctx, cancel := context.WithCancel(t.Context())
		in := make(chan models.Order)
		stopped := c.Consume(ctx, in)

		in <- order

		// Give the worker a moment, then make sure nothing was written
		time.Sleep(50 * time.Millisecond)
		cancel()
		<-stopped

		require.Empty(t, orders.statuses, "failed refresh must not touch the stored status")
		require.Equal(t, 1, client.calls)
	})

	t.Run("stops when input channel closes", func(t *testing.T) {
		client := &stubClient{statuses: map[string]string{}}
		orders := &stubOrders{statuses: map[uuid.UUID]string{}, updated: make(chan struct{}, 1)}

		c := &Consumer{countWorkers: 2, client: client, orderService: orders, logger: logger.NewNoOp()}

		in := make(chan models.Order)
		stopped := c.Consume(t.Context(), in)
		close(in)

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop after channel close")
		}
	})
}
