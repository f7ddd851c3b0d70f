package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// IngestResult describes an accepted webhook delivery
type IngestResult struct {
	EventID    string
	EventType  string
	PaymentID  string
	Dispatched bool
}

// WebhookService verifies webhook deliveries and hands payments to reconciliation
type WebhookService struct {
	verifier   *webhook.Verifier
	dispatcher PaymentDispatcher
	log        *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(verifier *webhook.Verifier, dispatcher PaymentDispatcher, log *zap.Logger) *WebhookService {
	return &WebhookService{
		verifier:   verifier,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Ingest verifies and dispatches one delivery. Errors wrapping
// ErrInvalidWebhook mean the delivery was rejected; any other error means
// the payment could not be handed off and the delivery should be retried.
// Ingest never waits for reconciliation to finish.
func (s *WebhookService) Ingest(ctx context.Context, body []byte, header http.Header) (*IngestResult, error) {
	event, err := s.verifier.Verify(body, header)
	if err != nil {
		s.log.Warn("Webhook rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	result := &IngestResult{EventID: event.ID, EventType: event.Type}

	if !webhook.IsPaymentSucceeded(event.Type) {
		s.log.Info("Ignoring webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		return result, nil
	}

	payment, err := webhook.ParsePayment(event.Data)
	if err != nil {
		s.log.Warn("Webhook payment payload rejected",
			zap.Error(err),
			zap.String("event_id", event.ID))
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	result.PaymentID = payment.ID

	if err := s.dispatcher.Dispatch(ctx, payment); err != nil {
		s.log.Error("Failed to dispatch payment",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("payment_id", payment.ID))
		return nil, err
	}

	result.Dispatched = true

	s.log.Info("Payment webhook accepted",
		zap.String("event_id", event.ID),
		zap.String("payment_id", payment.ID),
		zap.String("tenant_id", payment.TenantID))

	return result, nil
}
