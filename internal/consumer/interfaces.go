package consumer

import (
	"context"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/reconcile"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// MessageParser defines the interface for parsing raw message bytes into payments
type MessageParser interface {
	Parse(body []byte) (*webhook.Payment, error)
}

// PaymentProcessor runs reconciliation for one payment
type PaymentProcessor interface {
	Process(ctx context.Context, payment *webhook.Payment) (*reconcile.Result, error)
}
