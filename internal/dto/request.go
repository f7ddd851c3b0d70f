package dto

import (
	"github.com/shopspring/decimal"
)

// ListTipHistoryRequest represents a tip history query
type ListTipHistoryRequest struct {
	TenantID string `form:"tenant_id" binding:"required" example:"biz_123"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200" example:"50"`
	Offset   int    `form:"offset" binding:"omitempty,min=0" example:"0"`
}

// CreateTipTransactionRequest represents a manual transaction record request.
// Missing creator and operator amounts are derived with the configured split.
type CreateTipTransactionRequest struct {
	PaymentID      string           `json:"payment_id" binding:"required" example:"pay_123"`
	TenantID       string           `json:"tenant_id" binding:"required" example:"biz_123"`
	FromUserID     string           `json:"from_user_id" binding:"required" example:"user_123"`
	FromUsername   string           `json:"from_username" example:"alice"`
	Amount         *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"25.00"`
	NetAmount      *decimal.Decimal `json:"net_amount" swaggertype:"string" example:"24.00"`
	CreatorAmount  *decimal.Decimal `json:"creator_amount" swaggertype:"string" example:"19.20"`
	OperatorAmount *decimal.Decimal `json:"operator_amount" swaggertype:"string" example:"4.80"`
	FeeAmount      *decimal.Decimal `json:"fee_amount" swaggertype:"string" example:"1.00"`
	ExperienceID   string           `json:"experience_id" example:"exp_123"`
	Status         string           `json:"status" example:"completed"`
}

// UpdateTipStatusRequest represents a transaction status correction
type UpdateTipStatusRequest struct {
	PaymentID string `json:"payment_id" binding:"required" example:"pay_123"`
	Status    string `json:"status" binding:"required" example:"failed"`
}

// GetTenantRequest represents a query scoped to one tenant
type GetTenantRequest struct {
	TenantID     string `form:"tenant_id" binding:"required" example:"biz_123"`
	ExperienceID string `form:"experience_id" example:"exp_123"`
}

// FoldAnalyticsRequest represents a manual analytics update.
// Missing creator and operator amounts are derived with the configured split.
type FoldAnalyticsRequest struct {
	TenantID       string           `json:"tenant_id" binding:"required" example:"biz_123"`
	TipAmount      *decimal.Decimal `json:"tip_amount" binding:"required" swaggertype:"string" example:"25.00"`
	CreatorAmount  *decimal.Decimal `json:"creator_amount" swaggertype:"string" example:"20.00"`
	OperatorAmount *decimal.Decimal `json:"operator_amount" swaggertype:"string" example:"5.00"`
}

// RebuildAnalyticsRequest represents an analytics rebuild request.
// An empty tenant rebuilds every tenant.
type RebuildAnalyticsRequest struct {
	TenantID string `json:"tenant_id" example:"biz_123"`
}

// SaveTipConfigRequest represents a tip configuration upsert
type SaveTipConfigRequest struct {
	TenantID       string  `json:"tenant_id" binding:"required" example:"biz_123"`
	ExperienceID   string  `json:"experience_id" example:"exp_123"`
	TipAmounts     []int64 `json:"tip_amounts" binding:"required,min=1,max=20,dive,gt=0" example:"5,10,20"`
	WelcomeMessage string  `json:"welcome_message" example:"Thanks for the support!"`
}

// CreateCheckoutRequest represents a checkout configuration request
type CreateCheckoutRequest struct {
	TenantID string            `json:"tenant_id" binding:"required" example:"biz_123"`
	Amount   *decimal.Decimal  `json:"amount" binding:"required" swaggertype:"string" example:"10"`
	Metadata map[string]string `json:"metadata" swaggertype:"object,string" example:"experienceId:exp_123"`
}
