package consumer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ProcessorStage runs the reconciliation pipeline for each envelope.
// A message is deleted unless the pipeline reports a retriable error.
type ProcessorStage struct {
	processor PaymentProcessor
	workers   int
	log       *zap.Logger
}

// NewProcessorStage creates a new processor stage
func NewProcessorStage(processor PaymentProcessor, workers int, log *zap.Logger) *ProcessorStage {
	if workers < 1 {
		workers = 1
	}
	return &ProcessorStage{
		processor: processor,
		workers:   workers,
		log:       log,
	}
}

// Start processes envelopes until in is closed. Envelopes already taken
// from in are finished even after ctx is cancelled.
func (s *ProcessorStage) Start(ctx context.Context, in <-chan *Envelope) {
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for envelope := range in {
				s.process(envelope)
			}
			s.log.Debug("Processor worker stopped", zap.Int("worker", worker))
		}(i)
	}
	wg.Wait()
	s.log.Info("Processor stage shutting down")
}

func (s *ProcessorStage) process(envelope *Envelope) {
	ctx := context.Background()
	log := s.log.With(
		zap.String("message_id", envelope.MessageID),
		zap.String("payment_id", envelope.Payment.ID))

	result, err := s.processor.Process(ctx, envelope.Payment)
	if err != nil {
		log.Error("Reconciliation failed, message will be retried", zap.Error(err))
		if err := envelope.Nack(ctx); err != nil {
			log.Warn("Failed to nack message", zap.Error(err))
		}
		return
	}

	log.Debug("Message processed", zap.String("outcome", string(result.Outcome)))

	if err := envelope.Ack(ctx); err != nil {
		log.Error("Failed to ack message", zap.Error(err))
	}
}
