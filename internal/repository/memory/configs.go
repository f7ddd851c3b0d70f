package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
)

// ConfigRepository implements repository.ConfigRepository in memory
type ConfigRepository struct {
	mu       sync.RWMutex
	byTenant map[string]*domain.TipConfig
}

// NewConfigRepository creates an empty in-memory config repository
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{byTenant: make(map[string]*domain.TipConfig)}
}

func (r *ConfigRepository) Get(_ context.Context, tenantID string) (*domain.TipConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byTenant[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyConfig(cfg), nil
}

// Upsert keeps the id and creation time of an existing configuration
func (r *ConfigRepository) Upsert(_ context.Context, cfg *domain.TipConfig) (*domain.TipConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyConfig(cfg)
	if existing, ok := r.byTenant[cfg.TenantID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	r.byTenant[cfg.TenantID] = stored
	return copyConfig(stored), nil
}

func copyConfig(cfg *domain.TipConfig) *domain.TipConfig {
	c := *cfg
	c.TipAmounts = append([]int64(nil), cfg.TipAmounts...)
	c.PlanIDs = make(map[string]string, len(cfg.PlanIDs))
	for k, v := range cfg.PlanIDs {
		c.PlanIDs[k] = v
	}
	return &c
}
