package statusrefresh

import (
	"context"
	"time"

	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
)

type Producer struct {
	interval     time.Duration
	batchSize    int
	logger       logger.Logger
	orderService orderService
}

func (p *Producer) Produce(ctx context.Context, out chan<- models.Order) <-chan struct{} {
	idleStopped := make(chan struct{})
	p.logger.Debug("Starting status producer", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("Status producer stopped by context")
				return

			case <-ticker.C:
				orders, err := p.orderService.ListInProgress(ctx, p.batchSize)
				if err != nil {
					p.logger.Error("Failed to list in-progress orders", "error", err)
					continue
				}

				for _, order := range orders {
					select {
					case <-ctx.Done():
						p.logger.Debug("Status producer stopped by context while sending orders")
						return
					case out <- order:
					}
				}
			}
		}
	}()

	return idleStopped
}
