package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// Runner starts detached background tasks
type Runner interface {
	Go(name string, task func(ctx context.Context)) error
}

// Processor runs the reconciliation pipeline for one payment
type Processor interface {
	Process(ctx context.Context, payment *webhook.Payment) (*Result, error)
}

// AsyncDispatcher hands payments to the pipeline without waiting for it
type AsyncDispatcher struct {
	runner    Runner
	processor Processor
	log       *zap.Logger
}

// NewAsyncDispatcher creates a new AsyncDispatcher
func NewAsyncDispatcher(runner Runner, processor Processor, log *zap.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{runner: runner, processor: processor, log: log}
}

// Dispatch schedules the payment and returns immediately. Failures after
// this point are logged only.
func (d *AsyncDispatcher) Dispatch(_ context.Context, payment *webhook.Payment) error {
	err := d.runner.Go("reconcile:"+payment.ID, func(ctx context.Context) {
		if _, err := d.processor.Process(ctx, payment); err != nil {
			d.log.Error("Background reconciliation failed",
				zap.Error(err),
				zap.String("payment_id", payment.ID))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to dispatch payment %s: %w", payment.ID, err)
	}
	return nil
}
