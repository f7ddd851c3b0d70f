package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

// Ledger is the source of truth analytics are rebuilt from
type Ledger interface {
	AggregateCompleted(ctx context.Context, tenantID string) (*domain.TipAnalytics, error)
	Tenants(ctx context.Context) ([]string, error)
}

// Updater maintains the per-tenant running aggregate
type Updater struct {
	repo   repository.AnalyticsRepository
	ledger Ledger
	now    func() time.Time
	log    *zap.Logger
}

// NewUpdater creates a new Updater
func NewUpdater(repo repository.AnalyticsRepository, ledger Ledger, log *zap.Logger) *Updater {
	return &Updater{repo: repo, ledger: ledger, now: time.Now, log: log}
}

// FoldTransaction adds one transaction to the tenant aggregate
func (u *Updater) FoldTransaction(ctx context.Context, tenantID string, gross, creator, operator decimal.Decimal) (*domain.TipAnalytics, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id", domain.ErrMissingRequiredField)
	}

	analytics, err := u.repo.Fold(ctx, tenantID, repository.AnalyticsDelta{
		Gross:    gross,
		Creator:  creator,
		Operator: operator,
	}, u.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to fold transaction into analytics: %w", err)
	}

	u.log.Debug("Analytics folded",
		zap.String("tenant_id", tenantID),
		zap.Int64("tip_count", analytics.TipCount),
		zap.String("total_tips", analytics.TotalTips.String()))

	return analytics, nil
}

// Get returns the tenant aggregate, or a zero aggregate if none exists yet
func (u *Updater) Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	analytics, err := u.repo.Get(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewTipAnalytics(tenantID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return analytics, nil
}

// Rebuild recomputes the tenant aggregate from completed ledger records
func (u *Updater) Rebuild(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	analytics, err := u.ledger.AggregateCompleted(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger for %s: %w", tenantID, err)
	}
	if analytics.LastUpdated.IsZero() {
		analytics.LastUpdated = u.now().UTC()
	}

	if err := u.repo.Replace(ctx, analytics); err != nil {
		return nil, fmt.Errorf("failed to store rebuilt analytics for %s: %w", tenantID, err)
	}

	u.log.Info("Analytics rebuilt from ledger",
		zap.String("tenant_id", tenantID),
		zap.Int64("tip_count", analytics.TipCount),
		zap.String("total_tips", analytics.TotalTips.String()))

	return analytics, nil
}

// RebuildAll rebuilds every tenant and returns how many succeeded.
// A failing tenant does not stop the others.
func (u *Updater) RebuildAll(ctx context.Context) (int, error) {
	tenants, err := u.ledger.Tenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	rebuilt := 0
	var errs []error
	for _, tenantID := range tenants {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := u.Rebuild(ctx, tenantID); err != nil {
			u.log.Error("Failed to rebuild analytics",
				zap.Error(err),
				zap.String("tenant_id", tenantID))
			errs = append(errs, err)
			continue
		}
		rebuilt++
	}

	return rebuilt, errors.Join(errs...)
}
