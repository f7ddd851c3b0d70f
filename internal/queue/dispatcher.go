package queue

import (
	"context"
	"fmt"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// Dispatcher hands verified payments to the consumer through the queue
type Dispatcher struct {
	publisher QueuePublisher
}

// NewDispatcher creates a new queue-backed Dispatcher
func NewDispatcher(publisher QueuePublisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// Dispatch publishes the payment. The call returns once the queue has
// accepted the message.
func (d *Dispatcher) Dispatch(ctx context.Context, payment *webhook.Payment) error {
	if err := d.publisher.PublishPayment(ctx, dto.NewPaymentMessage(payment)); err != nil {
		return fmt.Errorf("failed to publish payment %s: %w", payment.ID, err)
	}
	return nil
}
