package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

const analyticsColumns = `tenant_id, total_tips, total_creator_earnings, total_operator_earnings,
	tip_count, average_tip_amount, last_updated`

// AnalyticsRepository implements repository.AnalyticsRepository for PostgreSQL.
// Fold is a single upsert so concurrent folds for one tenant never lose updates.
type AnalyticsRepository struct {
	client *Client
	log    *zap.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL analytics repository
func NewAnalyticsRepository(client *Client, log *zap.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{client: client, log: log}
}

func (r *AnalyticsRepository) Fold(ctx context.Context, tenantID string, delta repository.AnalyticsDelta, at time.Time) (*domain.TipAnalytics, error) {
	query := `
		INSERT INTO tip_analytics AS a (` + analyticsColumns + `)
		VALUES ($1, $2, $3, $4, 1, ROUND($2, 2), $5)
		ON CONFLICT (tenant_id) DO UPDATE SET
			total_tips = a.total_tips + EXCLUDED.total_tips,
			total_creator_earnings = a.total_creator_earnings + EXCLUDED.total_creator_earnings,
			total_operator_earnings = a.total_operator_earnings + EXCLUDED.total_operator_earnings,
			tip_count = a.tip_count + 1,
			average_tip_amount = ROUND((a.total_tips + EXCLUDED.total_tips) / (a.tip_count + 1), 2),
			last_updated = EXCLUDED.last_updated
		RETURNING ` + analyticsColumns

	analytics, err := scanAnalytics(r.client.Pool().QueryRow(ctx, query,
		tenantID, delta.Gross, delta.Creator, delta.Operator, at))
	if err != nil {
		return nil, fmt.Errorf("failed to fold analytics: %w", err)
	}
	return analytics, nil
}

func (r *AnalyticsRepository) Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM tip_analytics WHERE tenant_id = $1`

	analytics, err := scanAnalytics(r.client.Pool().QueryRow(ctx, query, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return analytics, nil
}

func (r *AnalyticsRepository) Replace(ctx context.Context, a *domain.TipAnalytics) error {
	query := `
		INSERT INTO tip_analytics (` + analyticsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id) DO UPDATE SET
			total_tips = EXCLUDED.total_tips,
			total_creator_earnings = EXCLUDED.total_creator_earnings,
			total_operator_earnings = EXCLUDED.total_operator_earnings,
			tip_count = EXCLUDED.tip_count,
			average_tip_amount = EXCLUDED.average_tip_amount,
			last_updated = EXCLUDED.last_updated`

	_, err := r.client.Pool().Exec(ctx, query,
		a.TenantID, a.TotalTips, a.TotalCreatorEarnings, a.TotalOperatorEarnings,
		a.TipCount, a.AverageTipAmount, a.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to replace analytics: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func scanAnalytics(row pgx.Row) (*domain.TipAnalytics, error) {
	var a domain.TipAnalytics
	err := row.Scan(
		&a.TenantID, &a.TotalTips, &a.TotalCreatorEarnings, &a.TotalOperatorEarnings,
		&a.TipCount, &a.AverageTipAmount, &a.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
