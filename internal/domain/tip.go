package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a tip transaction
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Valid reports whether s is one of the known statuses
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// TipTransaction is the record of one successfully completed tip payment.
// PaymentID is unique across all records.
type TipTransaction struct {
	ID             string            `json:"id"`
	PaymentID      string            `json:"payment_id"`
	TenantID       string            `json:"tenant_id"`
	FromUserID     string            `json:"from_user_id"`
	FromUsername   string            `json:"from_username"`
	GrossAmount    decimal.Decimal   `json:"gross_amount" swaggertype:"string" example:"25.00"`
	NetAmount      decimal.Decimal   `json:"net_amount" swaggertype:"string" example:"24.00"`
	CreatorAmount  decimal.Decimal   `json:"creator_amount" swaggertype:"string" example:"19.20"`
	OperatorAmount decimal.Decimal   `json:"operator_amount" swaggertype:"string" example:"4.80"`
	FeeAmount      decimal.Decimal   `json:"fee_amount" swaggertype:"string" example:"1.00"`
	Status         TransactionStatus `json:"status"`
	ExperienceID   string            `json:"experience_id,omitempty"`
	ExperienceName string            `json:"experience_name,omitempty"`
	TipperID       string            `json:"tipper_id,omitempty"`
	TipperName     string            `json:"tipper_name,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
}

// TipAnalytics is the running aggregate of completed tips for one tenant
type TipAnalytics struct {
	TenantID              string          `json:"tenant_id"`
	TotalTips             decimal.Decimal `json:"total_tips" swaggertype:"string" example:"100.00"`
	TotalCreatorEarnings  decimal.Decimal `json:"total_creator_earnings" swaggertype:"string" example:"80.00"`
	TotalOperatorEarnings decimal.Decimal `json:"total_operator_earnings" swaggertype:"string" example:"20.00"`
	TipCount              int64           `json:"tip_count"`
	AverageTipAmount      decimal.Decimal `json:"average_tip_amount" swaggertype:"string" example:"10.00"`
	LastUpdated           time.Time       `json:"last_updated"`
}

// NewTipAnalytics returns an empty aggregate for the tenant
func NewTipAnalytics(tenantID string) *TipAnalytics {
	return &TipAnalytics{
		TenantID:              tenantID,
		TotalTips:             decimal.Zero,
		TotalCreatorEarnings:  decimal.Zero,
		TotalOperatorEarnings: decimal.Zero,
		AverageTipAmount:      decimal.Zero,
	}
}

// Fold adds one transaction's amounts to the running totals.
// The average is always recomputed from the totals.
func (a *TipAnalytics) Fold(gross, creator, operator decimal.Decimal, at time.Time) {
	a.TotalTips = a.TotalTips.Add(gross)
	a.TotalCreatorEarnings = a.TotalCreatorEarnings.Add(creator)
	a.TotalOperatorEarnings = a.TotalOperatorEarnings.Add(operator)
	a.TipCount++
	a.LastUpdated = at
	a.RecomputeAverage()
}

// RecomputeAverage derives AverageTipAmount from TotalTips and TipCount
func (a *TipAnalytics) RecomputeAverage() {
	if a.TipCount <= 0 {
		a.AverageTipAmount = decimal.Zero
		return
	}
	a.AverageTipAmount = a.TotalTips.DivRound(decimal.NewFromInt(a.TipCount), 2)
}

// TipConfig holds a tenant's tipping settings.
// PlanIDs maps a whole-dollar amount (as a decimal string) to the platform plan id.
type TipConfig struct {
	ID             string            `json:"id"`
	TenantID       string            `json:"tenant_id"`
	ExperienceID   string            `json:"experience_id"`
	TipAmounts     []int64           `json:"tip_amounts"`
	WelcomeMessage string            `json:"welcome_message"`
	PlanIDs        map[string]string `json:"plan_ids"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

const DefaultWelcomeMessage = "Thank you for your support!"

// DefaultTipConfig is served to tenants that never saved a configuration
func DefaultTipConfig(tenantID, experienceID string) *TipConfig {
	return &TipConfig{
		TenantID:       tenantID,
		ExperienceID:   experienceID,
		TipAmounts:     []int64{10, 20, 50},
		WelcomeMessage: DefaultWelcomeMessage,
		PlanIDs:        map[string]string{},
	}
}
