package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

// TipServicer defines the interface for tip service operations
type TipServicer interface {
	ListHistory(ctx context.Context, req *dto.ListTipHistoryRequest) (*dto.TipHistoryResponse, error)
	RecordTransaction(ctx context.Context, req *dto.CreateTipTransactionRequest) (*dto.TipTransactionResponse, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateTipStatusRequest) (*domain.TipTransaction, error)
	GetAnalytics(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)
	FoldAnalytics(ctx context.Context, req *dto.FoldAnalyticsRequest) (*domain.TipAnalytics, error)
	RebuildAnalytics(ctx context.Context, tenantID string) (*dto.RebuildAnalyticsResponse, error)
	GetConfig(ctx context.Context, tenantID, experienceID string) (*domain.TipConfig, error)
	SaveConfig(ctx context.Context, req *dto.SaveTipConfigRequest) (*domain.TipConfig, error)
	CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*platform.CheckoutConfiguration, error)
}

// WebhookIngester defines the interface for webhook ingestion
type WebhookIngester interface {
	Ingest(ctx context.Context, body []byte, header http.Header) (*IngestResult, error)
}

// PaymentDispatcher hands a verified payment to reconciliation
type PaymentDispatcher interface {
	Dispatch(ctx context.Context, payment *webhook.Payment) error
}

// TransactionLedger is the transaction store used by the tip service
type TransactionLedger interface {
	RecordIfAbsent(ctx context.Context, tx *domain.TipTransaction) (*ledger.Result, error)
	UpdateStatus(ctx context.Context, paymentID string, status domain.TransactionStatus) (*domain.TipTransaction, error)
	List(ctx context.Context, tenantID string, limit, offset int) (*ledger.Page, error)
}

// AnalyticsUpdater maintains tenant aggregates
type AnalyticsUpdater interface {
	FoldTransaction(ctx context.Context, tenantID string, gross, creator, operator decimal.Decimal) (*domain.TipAnalytics, error)
	Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)
	Rebuild(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)
	RebuildAll(ctx context.Context) (int, error)
}

// Catalog creates purchasable tip products on the platform
type Catalog interface {
	CreateTipPlan(ctx context.Context, companyID string, amount int64) (string, error)
	CreateCheckoutConfiguration(ctx context.Context, companyID string, amount decimal.Decimal, metadata map[string]string) (*platform.CheckoutConfiguration, error)
}
