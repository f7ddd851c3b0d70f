package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// PaymentMessage is the queue representation of a verified payment.
// Amounts are carried exactly as received, before normalization.
type PaymentMessage struct {
	PaymentID       string                   `json:"payment_id"`
	TenantID        string                   `json:"tenant_id"`
	UserID          string                   `json:"user_id"`
	Username        string                   `json:"username"`
	GrossAmount     *decimal.Decimal         `json:"gross_amount,omitempty"`
	AmountAfterFees *decimal.Decimal         `json:"amount_after_fees,omitempty"`
	FeeAmount       *decimal.Decimal         `json:"fee_amount,omitempty"`
	Metadata        webhook.CheckoutMetadata `json:"metadata"`
}

// NewPaymentMessage creates a queue message for payment
func NewPaymentMessage(payment *webhook.Payment) *PaymentMessage {
	return &PaymentMessage{
		PaymentID:       payment.ID,
		TenantID:        payment.TenantID,
		UserID:          payment.UserID,
		Username:        payment.Username,
		GrossAmount:     payment.Amounts.Gross,
		AmountAfterFees: payment.Amounts.AfterFees,
		FeeAmount:       payment.Amounts.Fee,
		Metadata:        payment.Metadata,
	}
}

// Payment converts the message back into a payment
func (m *PaymentMessage) Payment() *webhook.Payment {
	return &webhook.Payment{
		ID:       m.PaymentID,
		TenantID: m.TenantID,
		UserID:   m.UserID,
		Username: m.Username,
		Amounts: payout.RawAmounts{
			Gross:     m.GrossAmount,
			AfterFees: m.AmountAfterFees,
			Fee:       m.FeeAmount,
		},
		Metadata: m.Metadata,
	}
}
