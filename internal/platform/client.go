package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.whop.com/api/v1"
	DefaultCurrency = "usd"

	defaultTimeout      = 10 * time.Second
	defaultMaxRetries   = 3
	defaultInitialDelay = 500 * time.Millisecond
)

// AccountKind is the namespace of a platform account id
type AccountKind string

const (
	AccountUser    AccountKind = "user"
	AccountCompany AccountKind = "company"
	AccountUnknown AccountKind = "unknown"
)

// KindOf classifies an account id by its prefix
func KindOf(accountID string) AccountKind {
	switch {
	case strings.HasPrefix(accountID, "user_"):
		return AccountUser
	case strings.HasPrefix(accountID, "biz_"):
		return AccountCompany
	}
	return AccountUnknown
}

// ErrUnsupportedAccount is returned for ids outside the user and company namespaces
var ErrUnsupportedAccount = errors.New("account id is neither a user nor a company")

// APIError is a non-2xx response from the platform
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform API error (%d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed when repeated
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config holds platform connection settings
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the commerce platform REST API
type Client struct {
	baseURL      string
	apiKey       string
	maxRetries   int
	initialDelay time.Duration
	client       *http.Client
	log          *zap.Logger
}

// NewClient creates a new platform client
func NewClient(cfg Config, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		maxRetries:   maxRetries,
		initialDelay: defaultInitialDelay,
		client:       &http.Client{Timeout: timeout},
		log:          log,
	}
}

// TransferRequest moves funds between two ledger accounts
type TransferRequest struct {
	Amount         decimal.Decimal
	Currency       string
	OriginID       string
	DestinationID  string
	IdempotenceKey string
	Notes          string
}

type transferBody struct {
	Amount         json.Number `json:"amount"`
	Currency       string      `json:"currency"`
	OriginID       string      `json:"origin_id"`
	DestinationID  string      `json:"destination_id"`
	IdempotenceKey string      `json:"idempotence_key"`
	Notes          string      `json:"notes,omitempty"`
}

// Transfer is the created transfer
type Transfer struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateTransfer issues a transfer. Repeating a request with the same
// idempotence key never moves funds twice.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}

	body := transferBody{
		Amount:         json.Number(req.Amount.StringFixed(2)),
		Currency:       req.Currency,
		OriginID:       req.OriginID,
		DestinationID:  req.DestinationID,
		IdempotenceKey: req.IdempotenceKey,
		Notes:          req.Notes,
	}

	var transfer Transfer
	if err := c.do(ctx, http.MethodPost, "/transfers", body, &transfer); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return &transfer, nil
}

// ResolveLedgerAccount returns the ledger account id holding the balance of
// a user or company account
func (c *Client) ResolveLedgerAccount(ctx context.Context, accountID string) (string, error) {
	if KindOf(accountID) == AccountUnknown {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAccount, accountID)
	}

	var account struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/ledger_accounts/"+url.PathEscape(accountID), nil, &account); err != nil {
		return "", fmt.Errorf("failed to resolve ledger account: %w", err)
	}
	if account.ID == "" {
		return "", fmt.Errorf("ledger account for %s has no id", accountID)
	}

	return account.ID, nil
}

// CreateTipPlan creates a hidden product with a one-time plan priced at
// amount (major units) and returns the plan id
func (c *Client) CreateTipPlan(ctx context.Context, companyID string, amount int64) (string, error) {
	productReq := map[string]any{
		"company_id":  companyID,
		"title":       fmt.Sprintf("$%d Tip", amount),
		"description": fmt.Sprintf("Support creator with a $%d tip", amount),
		"visibility":  "hidden",
	}
	var product struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", productReq, &product); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	planReq := map[string]any{
		"company_id":    companyID,
		"product_id":    product.ID,
		"plan_type":     "one_time",
		"initial_price": amount * 100,
		"currency":      DefaultCurrency,
	}
	var plan struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/plans", planReq, &plan); err != nil {
		return "", fmt.Errorf("failed to create plan: %w", err)
	}

	return plan.ID, nil
}

// CheckoutConfiguration is a hosted checkout prepared for a fixed tip
type CheckoutConfiguration struct {
	ID          string            `json:"id"`
	PurchaseURL string            `json:"purchase_url,omitempty"`
	PlanID      string            `json:"plan_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreateCheckoutConfiguration prepares a one-time checkout for amount
// (major units) carrying the given metadata
func (c *Client) CreateCheckoutConfiguration(ctx context.Context, companyID string, amount decimal.Decimal, metadata map[string]string) (*CheckoutConfiguration, error) {
	req := map[string]any{
		"company_id": companyID,
		"plan": map[string]any{
			"initial_price": json.Number(amount.Mul(decimal.NewFromInt(100)).Round(0).String()),
			"plan_type":     "one_time",
			"currency":      DefaultCurrency,
		},
		"metadata": metadata,
	}

	var checkout CheckoutConfiguration
	if err := c.do(ctx, http.MethodPost, "/checkout_configurations", req, &checkout); err != nil {
		return nil, fmt.Errorf("failed to create checkout configuration: %w", err)
	}

	return &checkout, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.attempt(ctx, method, path, body, out)
		if lastErr == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && !apiErr.Retryable() {
			return lastErr
		}

		c.log.Warn("Platform request failed, retrying",
			zap.Error(lastErr),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt+1))
	}

	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
