package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
)

// AnonymousUsername is used when the payer has no public username
const AnonymousUsername = "Anonymous"

// CheckoutMetadata is the metadata attached when the checkout was created
type CheckoutMetadata struct {
	ExperienceID   string           `json:"experience_id,omitempty"`
	ExperienceName string           `json:"experience_name,omitempty"`
	TipperID       string           `json:"tipper_id,omitempty"`
	TipperName     string           `json:"tipper_name,omitempty"`
	TipAmount      *decimal.Decimal `json:"tip_amount,omitempty"`
}

// Payment is the subset of a payment.succeeded payload used by reconciliation
type Payment struct {
	ID       string            `json:"id"`
	TenantID string            `json:"tenant_id"`
	UserID   string            `json:"user_id"`
	Username string            `json:"username"`
	Amounts  payout.RawAmounts `json:"-"`
	Metadata CheckoutMetadata  `json:"metadata"`
}

// ParsePayment extracts payment fields from the event data.
// Upstream payloads nest some fields and flatten others depending on the
// API version, so every field has fallbacks.
func ParsePayment(data json.RawMessage) (*Payment, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: payment data: %v", ErrMalformedPayload, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: payment data is null", ErrMalformedPayload)
	}

	company := firstMap(m, "company")
	user := firstMap(m, "user")

	p := &Payment{
		ID:       firstString(m, "id", "payment_id"),
		TenantID: firstNonEmpty(firstString(company, "id"), firstString(m, "company_id")),
		UserID:   firstNonEmpty(firstString(user, "id"), firstString(m, "user_id")),
		Username: firstNonEmpty(firstString(user, "username"), firstString(m, "username")),
		Amounts: payout.RawAmounts{
			Gross:     firstDecimal(m, "amount", "total", "final_amount"),
			AfterFees: firstDecimal(m, "amount_after_fees", "net_amount"),
			Fee:       firstDecimal(m, "fee_amount", "fee"),
		},
	}
	if p.Username == "" {
		p.Username = AnonymousUsername
	}

	metadata := firstMap(firstMap(m, "checkout"), "metadata")
	if metadata == nil {
		metadata = firstMap(m, "metadata")
	}
	p.Metadata = CheckoutMetadata{
		ExperienceID:   firstString(metadata, "experienceId", "experience_id"),
		ExperienceName: firstString(metadata, "experienceName", "experience_name"),
		TipperID:       firstString(metadata, "tipperId", "tipper_id"),
		TipperName:     firstString(metadata, "tipperName", "tipper_name"),
		TipAmount:      firstDecimal(metadata, "tip_amount", "tipAmount"),
	}

	return p, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch value := v.(type) {
			case string:
				if value != "" {
					return value
				}
			case json.Number:
				return value.String()
			case float64:
				return strconv.FormatFloat(value, 'f', -1, 64)
			}
		}
	}
	return ""
}

func firstMap(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if mv, ok := v.(map[string]any); ok {
				return mv
			}
		}
	}
	return nil
}

// firstDecimal returns nil when no key holds a parseable number
func firstDecimal(m map[string]any, keys ...string) *decimal.Decimal {
	for _, key := range keys {
		raw := strings.TrimSpace(firstString(m, key))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		return &d
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
