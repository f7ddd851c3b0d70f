package consumer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

var errMissingPaymentID = errors.New("message has no payment_id")

// JSONPaymentParser implements MessageParser for JSON-formatted payment messages
type JSONPaymentParser struct{}

// NewJSONPaymentParser creates a new JSON payment parser
func NewJSONPaymentParser() *JSONPaymentParser {
	return &JSONPaymentParser{}
}

// Parse parses a JSON message body into a Payment
func (p *JSONPaymentParser) Parse(body []byte) (*webhook.Payment, error) {
	var msg dto.PaymentMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if msg.PaymentID == "" {
		return nil, errMissingPaymentID
	}

	return msg.Payment(), nil
}
