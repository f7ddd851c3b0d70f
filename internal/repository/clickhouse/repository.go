package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

// AnalyticsRepository implements repository.AnalyticsRepository for ClickHouse.
// Every write appends a new row version; reads take the highest version.
// Folds are read-modify-write, serialized per tenant within this process.
type AnalyticsRepository struct {
	client *Client
	locks  sync.Map
	now    func() time.Time
	log    *zap.Logger
}

// NewAnalyticsRepository creates a new ClickHouse analytics repository
func NewAnalyticsRepository(client *Client, log *zap.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		client: client,
		now:    time.Now,
		log:    log,
	}
}

// InitSchema creates the analytics table with the ReplacingMergeTree engine
func (r *AnalyticsRepository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS tip_analytics (
		tenant_id String,
		total_tips Decimal(38, 6),
		total_creator_earnings Decimal(38, 6),
		total_operator_earnings Decimal(38, 6),
		tip_count Int64,
		average_tip_amount Decimal(38, 6),
		last_updated DateTime64(3, 'UTC'),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	ORDER BY (tenant_id)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tip_analytics table: %w", err)
	}

	r.log.Info("ClickHouse analytics schema initialized")
	return nil
}

func (r *AnalyticsRepository) Fold(ctx context.Context, tenantID string, delta repository.AnalyticsDelta, at time.Time) (*domain.TipAnalytics, error) {
	unlock := r.lock(tenantID)
	defer unlock()

	analytics, err := r.Get(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		analytics = domain.NewTipAnalytics(tenantID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read analytics before fold: %w", err)
	}

	analytics.Fold(delta.Gross, delta.Creator, delta.Operator, at)

	if err := r.insert(ctx, analytics); err != nil {
		return nil, fmt.Errorf("failed to fold analytics: %w", err)
	}
	return analytics, nil
}

func (r *AnalyticsRepository) Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	query := `
		SELECT tenant_id, total_tips, total_creator_earnings, total_operator_earnings,
			tip_count, average_tip_amount, last_updated
		FROM tip_analytics
		WHERE tenant_id = ?
		ORDER BY version DESC
		LIMIT 1
	`

	var a domain.TipAnalytics
	err := r.client.Conn().QueryRow(ctx, query, tenantID).Scan(
		&a.TenantID, &a.TotalTips, &a.TotalCreatorEarnings, &a.TotalOperatorEarnings,
		&a.TipCount, &a.AverageTipAmount, &a.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}
	return &a, nil
}

func (r *AnalyticsRepository) Replace(ctx context.Context, analytics *domain.TipAnalytics) error {
	unlock := r.lock(analytics.TenantID)
	defer unlock()

	if err := r.insert(ctx, analytics); err != nil {
		return fmt.Errorf("failed to replace analytics: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *AnalyticsRepository) Close() error {
	return r.client.Close()
}

func (r *AnalyticsRepository) insert(ctx context.Context, a *domain.TipAnalytics) error {
	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO tip_analytics")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	err = batch.Append(
		a.TenantID,
		a.TotalTips,
		a.TotalCreatorEarnings,
		a.TotalOperatorEarnings,
		a.TipCount,
		a.AverageTipAmount,
		a.LastUpdated,
		uint64(r.now().UnixNano()),
	)
	if err != nil {
		return fmt.Errorf("failed to append analytics row: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) lock(tenantID string) func() {
	value, _ := r.locks.LoadOrStore(tenantID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
