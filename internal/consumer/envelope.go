package consumer

import (
	"context"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// Envelope wraps a payment with acknowledgment callbacks
type Envelope struct {
	Payment   *webhook.Payment
	MessageID string
	ack       func(context.Context) error
	nack      func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(payment *webhook.Payment, messageID string, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Payment:   payment,
		MessageID: messageID,
		ack:       ack,
		nack:      nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
