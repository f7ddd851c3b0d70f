package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/transfer"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

var (
	// ErrTransferDispatch marks a failed operator transfer; it needs manual reconciliation
	ErrTransferDispatch = errors.New("transfer dispatch failed")
	// ErrAnalyticsFold marks a failed analytics fold; a rebuild repairs it
	ErrAnalyticsFold = errors.New("analytics fold failed")
)

// Outcome is the terminal state of one pipeline run
type Outcome string

const (
	OutcomeRecorded  Outcome = "recorded"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

// TransactionStore persists transactions idempotently
type TransactionStore interface {
	RecordIfAbsent(ctx context.Context, tx *domain.TipTransaction) (*ledger.Result, error)
}

// TransferDispatcher moves the operator share
type TransferDispatcher interface {
	DispatchOperatorShare(ctx context.Context, tenantID string, amount decimal.Decimal, paymentID string) (transfer.Outcome, error)
}

// AnalyticsFolder folds a transaction into tenant analytics
type AnalyticsFolder interface {
	FoldTransaction(ctx context.Context, tenantID string, gross, creator, operator decimal.Decimal) (*domain.TipAnalytics, error)
}

// Result describes what Process did. TransferErr and AnalyticsErr are
// contained failures; they never make Process return an error.
type Result struct {
	Outcome        Outcome
	Reason         string
	Transaction    *domain.TipTransaction
	TransferResult transfer.Outcome
	TransferErr    error
	AnalyticsErr   error
}

// Pipeline reconciles one succeeded payment: normalize, split, record,
// transfer and fold
type Pipeline struct {
	store     TransactionStore
	splitter  *payout.Splitter
	transfers TransferDispatcher
	analytics AnalyticsFolder
	log       *zap.Logger
}

// NewPipeline creates a new Pipeline
func NewPipeline(store TransactionStore, splitter *payout.Splitter, transfers TransferDispatcher, analytics AnalyticsFolder, log *zap.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		splitter:  splitter,
		transfers: transfers,
		analytics: analytics,
		log:       log,
	}
}

// Process runs the pipeline for payment. Only a transaction store failure
// is returned as an error; the event can then be safely retried.
func (p *Pipeline) Process(ctx context.Context, payment *webhook.Payment) (*Result, error) {
	log := p.log.With(zap.String("payment_id", payment.ID))

	if reason := missingField(payment); reason != "" {
		return p.reject(log, payment, reason), nil
	}

	// The payload must carry a usable amount of its own; the checkout
	// override only corrects it.
	amounts := payout.NormalizeAmounts(payment.Amounts)
	if !amounts.Net.IsPositive() {
		return p.reject(log, payment, "net_amount"), nil
	}

	if tip := payment.Metadata.TipAmount; tip != nil && tip.IsPositive() {
		log.Debug("Applying checkout tip amount override",
			zap.String("tip_amount", tip.String()),
			zap.String("payload_gross", amounts.Gross.String()))
		amounts = amounts.WithOverride(*tip)
	}

	if !amounts.Net.IsPositive() {
		return p.reject(log, payment, "net_amount"), nil
	}

	split := p.splitter.Split(amounts.Net)

	log.Info("Payment breakdown",
		zap.String("tenant_id", payment.TenantID),
		zap.String("gross_amount", amounts.Gross.String()),
		zap.String("fee_amount", amounts.Fee.String()),
		zap.String("net_amount", amounts.Net.String()),
		zap.String("creator_amount", split.Creator.String()),
		zap.String("operator_amount", split.Operator.String()))

	recorded, err := p.store.RecordIfAbsent(ctx, &domain.TipTransaction{
		PaymentID:      payment.ID,
		TenantID:       payment.TenantID,
		FromUserID:     payment.UserID,
		FromUsername:   payment.Username,
		GrossAmount:    amounts.Gross,
		NetAmount:      amounts.Net,
		CreatorAmount:  split.Creator,
		OperatorAmount: split.Operator,
		FeeAmount:      amounts.Fee,
		Status:         domain.StatusCompleted,
		ExperienceID:   payment.Metadata.ExperienceID,
		ExperienceName: payment.Metadata.ExperienceName,
		TipperID:       payment.Metadata.TipperID,
		TipperName:     payment.Metadata.TipperName,
	})
	if err != nil {
		log.Error("Failed to record transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to record transaction %s: %w", payment.ID, err)
	}

	if !recorded.Created {
		return &Result{Outcome: OutcomeDuplicate, Transaction: recorded.Record}, nil
	}

	result := &Result{Outcome: OutcomeRecorded, Transaction: recorded.Record}

	result.TransferResult, err = p.transfers.DispatchOperatorShare(ctx, payment.TenantID, split.Operator, payment.ID)
	if err != nil {
		result.TransferErr = fmt.Errorf("%w: %v", ErrTransferDispatch, err)
	}

	if _, err := p.analytics.FoldTransaction(ctx, payment.TenantID, amounts.Gross, split.Creator, split.Operator); err != nil {
		result.AnalyticsErr = fmt.Errorf("%w: %v", ErrAnalyticsFold, err)
		log.Error("Failed to update analytics, rebuild required",
			zap.Error(err),
			zap.String("tenant_id", payment.TenantID))
	}

	log.Info("Tip payment reconciled",
		zap.String("tenant_id", payment.TenantID),
		zap.String("transaction_id", recorded.Record.ID),
		zap.String("transfer", string(result.TransferResult)),
		zap.Bool("transfer_failed", result.TransferErr != nil),
		zap.Bool("analytics_failed", result.AnalyticsErr != nil))

	return result, nil
}

func (p *Pipeline) reject(log *zap.Logger, payment *webhook.Payment, field string) *Result {
	log.Warn("Missing required payment data, event dropped",
		zap.Error(domain.ErrMissingRequiredField),
		zap.String("field", field),
		zap.String("tenant_id", payment.TenantID),
		zap.String("user_id", payment.UserID))
	return &Result{Outcome: OutcomeRejected, Reason: field}
}

func missingField(payment *webhook.Payment) string {
	switch {
	case payment.ID == "":
		return "payment_id"
	case payment.TenantID == "":
		return "tenant_id"
	case payment.UserID == "":
		return "user_id"
	}
	return ""
}
