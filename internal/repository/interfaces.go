package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
)

// TransactionQuery represents tip history listing parameters
type TransactionQuery struct {
	TenantID string
	Limit    int
	Offset   int
}

// AnalyticsDelta is the contribution of one transaction to a tenant aggregate
type AnalyticsDelta struct {
	Gross    decimal.Decimal
	Creator  decimal.Decimal
	Operator decimal.Decimal
}

// TransactionRepository defines the interface for tip transaction storage.
// Payment ids are unique; implementations enforce it at write time.
type TransactionRepository interface {
	// InsertIfAbsent stores tx unless a record with the same payment id exists.
	// It returns the stored record and whether this call created it.
	InsertIfAbsent(ctx context.Context, tx *domain.TipTransaction) (*domain.TipTransaction, bool, error)

	// GetByPaymentID returns domain.ErrNotFound when no record matches
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.TipTransaction, error)

	// UpdateStatus returns domain.ErrNotFound when no record matches
	UpdateStatus(ctx context.Context, paymentID string, status domain.TransactionStatus, at time.Time) (*domain.TipTransaction, error)

	// List returns a tenant's transactions, newest first
	List(ctx context.Context, query TransactionQuery) ([]*domain.TipTransaction, error)

	// AggregateCompleted sums a tenant's completed transactions
	AggregateCompleted(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)

	// Tenants lists every tenant with at least one transaction
	Tenants(ctx context.Context) ([]string, error)

	// Ping checks if the storage is reachable
	Ping(ctx context.Context) error
}

// AnalyticsRepository defines the interface for per-tenant aggregate storage
type AnalyticsRepository interface {
	// Fold adds delta to the tenant aggregate, creating it when absent
	Fold(ctx context.Context, tenantID string, delta AnalyticsDelta, at time.Time) (*domain.TipAnalytics, error)

	// Get returns domain.ErrNotFound when the tenant has no aggregate
	Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)

	// Replace overwrites the tenant aggregate
	Replace(ctx context.Context, analytics *domain.TipAnalytics) error

	// Ping checks if the storage is reachable
	Ping(ctx context.Context) error
}

// ConfigRepository defines the interface for tip configuration storage
type ConfigRepository interface {
	// Get returns domain.ErrNotFound when the tenant saved no configuration
	Get(ctx context.Context, tenantID string) (*domain.TipConfig, error)

	// Upsert creates or replaces the tenant configuration
	Upsert(ctx context.Context, cfg *domain.TipConfig) (*domain.TipConfig, error)
}
