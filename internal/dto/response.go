package dto

import (
	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"tenant_id is required"`
}

// Pagination describes a page of results
type Pagination struct {
	Limit   int  `json:"limit" example:"50"`
	Offset  int  `json:"offset" example:"0"`
	HasMore bool `json:"has_more" example:"false"`
}

// TipHistoryResponse represents a page of tip transactions
type TipHistoryResponse struct {
	Data       []*domain.TipTransaction `json:"data"`
	Pagination Pagination               `json:"pagination"`
}

// TipTransactionResponse represents a created or existing transaction
type TipTransactionResponse struct {
	Created bool                   `json:"created" example:"true"`
	Message string                 `json:"message,omitempty" example:"Transaction already recorded"`
	Data    *domain.TipTransaction `json:"data"`
}

// StatusUpdateResponse represents a successful status correction
type StatusUpdateResponse struct {
	Message string                 `json:"message" example:"Transaction status updated"`
	Data    *domain.TipTransaction `json:"data"`
}

// TipAnalyticsResponse represents a tenant's aggregate analytics
type TipAnalyticsResponse struct {
	Data *domain.TipAnalytics `json:"data"`
}

// RebuildAnalyticsResponse represents the result of an analytics rebuild
type RebuildAnalyticsResponse struct {
	Rebuilt int      `json:"rebuilt" example:"3"`
	Errors  []string `json:"errors,omitempty"`
}

// TipConfigResponse represents a tenant's tip configuration
type TipConfigResponse struct {
	Data *domain.TipConfig `json:"data"`
}

// CheckoutResponse represents a created checkout configuration
type CheckoutResponse struct {
	Data *platform.CheckoutConfiguration `json:"data"`
}

// HealthResponse represents the service health
type HealthResponse struct {
	Status string            `json:"status" example:"healthy"`
	Checks map[string]string `json:"checks,omitempty"`
}
