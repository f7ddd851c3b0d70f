package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
)

const configColumns = `id, tenant_id, experience_id, tip_amounts, welcome_message, plan_ids, created_at, updated_at`

// ConfigRepository implements repository.ConfigRepository for PostgreSQL
type ConfigRepository struct {
	client *Client
	log    *zap.Logger
}

// NewConfigRepository creates a new PostgreSQL config repository
func NewConfigRepository(client *Client, log *zap.Logger) *ConfigRepository {
	return &ConfigRepository{client: client, log: log}
}

func (r *ConfigRepository) Get(ctx context.Context, tenantID string) (*domain.TipConfig, error) {
	query := `SELECT ` + configColumns + ` FROM tip_configs WHERE tenant_id = $1`

	cfg, err := scanConfig(r.client.Pool().QueryRow(ctx, query, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tip config: %w", err)
	}
	return cfg, nil
}

// Upsert keeps the id and creation time of an existing row
func (r *ConfigRepository) Upsert(ctx context.Context, cfg *domain.TipConfig) (*domain.TipConfig, error) {
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	planIDs := cfg.PlanIDs
	if planIDs == nil {
		planIDs = map[string]string{}
	}
	amounts := cfg.TipAmounts
	if amounts == nil {
		amounts = []int64{}
	}

	query := `
		INSERT INTO tip_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id) DO UPDATE SET
			experience_id = EXCLUDED.experience_id,
			tip_amounts = EXCLUDED.tip_amounts,
			welcome_message = EXCLUDED.welcome_message,
			plan_ids = EXCLUDED.plan_ids,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + configColumns

	stored, err := scanConfig(r.client.Pool().QueryRow(ctx, query,
		id, cfg.TenantID, cfg.ExperienceID, amounts, cfg.WelcomeMessage, planIDs, cfg.CreatedAt, cfg.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tip config: %w", err)
	}
	return stored, nil
}

func scanConfig(row pgx.Row) (*domain.TipConfig, error) {
	var cfg domain.TipConfig
	err := row.Scan(
		&cfg.ID, &cfg.TenantID, &cfg.ExperienceID, &cfg.TipAmounts,
		&cfg.WelcomeMessage, &cfg.PlanIDs, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cfg.PlanIDs == nil {
		cfg.PlanIDs = map[string]string{}
	}
	return &cfg, nil
}
