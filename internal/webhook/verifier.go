package webhook

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"go.uber.org/zap"
)

// EventPaymentSucceeded is the only event type that triggers reconciliation
const EventPaymentSucceeded = "payment.succeeded"

// IsPaymentSucceeded reports whether eventType names a succeeded payment.
// Older payload variants spell it with a space or an underscore.
func IsPaymentSucceeded(eventType string) bool {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case EventPaymentSucceeded, "payment succeeded", "payment_succeeded":
		return true
	}
	return false
}

// PlaceholderSecret is the value shipped in example env files; it counts as unset
const PlaceholderSecret = "get_this_after_creating_a_webhook_in_the_app_settings_screen"

// DefaultTolerance bounds the age of a signed delivery
const DefaultTolerance = 5 * time.Minute

const (
	headerID        = "webhook-id"
	headerTimestamp = "webhook-timestamp"
	headerSignature = "webhook-signature"
	secretPrefix    = "whsec_"
)

var (
	// ErrInvalidSignature is returned when the delivery cannot be authenticated
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedPayload is returned when the body is not a webhook envelope
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is the webhook envelope
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// Verifier authenticates and decodes inbound webhook deliveries
type Verifier struct {
	hook      *standardwebhooks.Webhook
	tolerance time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewVerifier creates a new Verifier. An empty or placeholder secret
// disables signature checks. A whsec_ secret carries a base64 key; any
// other secret is used as the raw key.
func NewVerifier(secret string, tolerance time.Duration, log *zap.Logger) (*Verifier, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	v := &Verifier{
		tolerance: tolerance,
		now:       time.Now,
		log:       log,
	}

	secret = strings.TrimSpace(secret)
	if secret == "" || secret == PlaceholderSecret {
		log.Warn("Webhook secret not configured, signature verification disabled")
		return v, nil
	}

	encoded, ok := strings.CutPrefix(secret, secretPrefix)
	if !ok {
		encoded = base64.StdEncoding.EncodeToString([]byte(secret))
	}

	hook, err := standardwebhooks.NewWebhook(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}
	v.hook = hook

	return v, nil
}

// Enforced reports whether signatures are checked
func (v *Verifier) Enforced() bool {
	return v.hook != nil
}

// Verify checks the delivery signature (when enforced) and decodes the envelope
func (v *Verifier) Verify(body []byte, header http.Header) (*Event, error) {
	if v.Enforced() {
		if err := v.verifySignature(body, header); err != nil {
			return nil, err
		}
	} else {
		v.log.Warn("Skipping webhook signature verification",
			zap.String("webhook_id", header.Get(headerID)))
	}

	return decodeEvent(body, header.Get(headerID))
}

// verifySignature applies the configured tolerance itself; the library
// only knows a fixed window.
func (v *Verifier) verifySignature(body []byte, header http.Header) error {
	timestamp := header.Get(headerTimestamp)
	if header.Get(headerID) == "" || timestamp == "" || header.Get(headerSignature) == "" {
		return fmt.Errorf("%w: missing signature headers", ErrInvalidSignature)
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrInvalidSignature, timestamp)
	}

	skew := v.now().Sub(time.Unix(seconds, 0))
	if time.Duration(math.Abs(float64(skew))) > v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	if err := v.hook.VerifyIgnoringTimestamp(body, header); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return nil
}

// Sign produces webhook-timestamp and webhook-signature header values for body
func (v *Verifier) Sign(id string, at time.Time, body []byte) (timestamp, signature string, err error) {
	if !v.Enforced() {
		return "", "", errors.New("webhook secret not configured")
	}

	signature, err = v.hook.Sign(id, at, body)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign webhook: %w", err)
	}
	return strconv.FormatInt(at.Unix(), 10), signature, nil
}

func decodeEvent(body []byte, deliveryID string) (*Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if event.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}

	if event.ID == "" {
		event.ID = deliveryID
	}

	return &event, nil
}
