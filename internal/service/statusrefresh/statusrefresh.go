// Package statusrefresh keeps local order statuses in sync with the
// reseller panel.
//
// The panel exposes no webhook, so this is polling: a producer lists orders
// still in progress on a fixed interval and a small worker pool asks the
// panel for each one's current status. Failures are logged and otherwise
// ignored; the previous status stays until the next tick.
package statusrefresh

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/reseller"
)

const (
	defaultCountWorkers = 4                // number of workers polling the panel
	defaultPollInterval = 30 * time.Second // matches the storefront's old client-side poll
	defaultBatchSize    = 100              // orders listed per tick
)

type resellerClient interface {
	GetOrderStatus(ctx context.Context, providerOrderID string) (reseller.OrderStatus, error)
}

type orderService interface {
	ListInProgress(ctx context.Context, limit int) ([]models.Order, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, providerStatus string) (models.Order, error)
}

type Refresher struct {
	consumer *Consumer
	producer *Producer
}

func New(client resellerClient, orderService orderService, l logger.Logger) *Refresher {
	return &Refresher{
		consumer: &Consumer{
			countWorkers: defaultCountWorkers,
			client:       client,
			orderService: orderService,
			logger:       l,
		},
		producer: &Producer{
			interval:     defaultPollInterval,
			batchSize:    defaultBatchSize,
			orderService: orderService,
			logger:       l,
		},
	}
}

// Run starts the producer and consumer and returns a channel closed when
// both have drained after context cancellation
func (r *Refresher) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	orderChan := make(chan models.Order)

	producerStopped := r.producer.Produce(ctx, orderChan)
	consumerStopped := r.consumer.Consume(ctx, orderChan)

	go func() {
		defer close(idleStopped)
		defer close(orderChan)
		<-producerStopped
		<-consumerStopped
		r.consumer.logger.Debug("Status refresher stopped")
	}()

	return idleStopped
}
