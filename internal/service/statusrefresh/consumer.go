package statusrefresh

import (
	"context"
	"sync"

	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
)

type Consumer struct {
	countWorkers int

	client       resellerClient
	orderService orderService
	logger       logger.Logger
}

func (c *Consumer) Consume(ctx context.Context, in <-chan models.Order) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < c.countWorkers; i++ {
		wg.Add(1)
		go func() {
			c.worker(ctx, in)
			wg.Done()
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		c.logger.Debug("Status consumer stopped")
	}()

	return idleStopped
}

func (c *Consumer) worker(ctx context.Context, in <-chan models.Order) {
	for {
		select {
		case <-ctx.Done():
			return

		case order, ok := <-in:
			if !ok {
				c.logger.Debug("Status worker stopped, input channel closed")
				return
			}

			status, err := c.client.GetOrderStatus(ctx, order.ProviderOrderID)
			if err != nil {
				// Keep the previous status, the next tick retries
				c.logger.Warn("Failed to refresh order status",
					"error", err, "order_id", order.ID, "provider_order_id", order.ProviderOrderID)
				continue
			}

			if _, err := c.orderService.SetStatus(ctx, order.ID, status.Status); err != nil {
				c.logger.Error("Failed to store refreshed status",
					"error", err, "order_id", order.ID, "status", status.Status)
			}
		}
	}
}
