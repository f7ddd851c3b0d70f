package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

// AnalyticsRepository implements repository.AnalyticsRepository in memory.
// Folds for the same tenant are serialized by the mutex.
type AnalyticsRepository struct {
	mu       sync.Mutex
	byTenant map[string]*domain.TipAnalytics
}

// NewAnalyticsRepository creates an empty in-memory analytics repository
func NewAnalyticsRepository() *AnalyticsRepository {
	return &AnalyticsRepository{byTenant: make(map[string]*domain.TipAnalytics)}
}

func (r *AnalyticsRepository) Fold(_ context.Context, tenantID string, delta repository.AnalyticsDelta, at time.Time) (*domain.TipAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	analytics, ok := r.byTenant[tenantID]
	if !ok {
		analytics = domain.NewTipAnalytics(tenantID)
		r.byTenant[tenantID] = analytics
	}
	analytics.Fold(delta.Gross, delta.Creator, delta.Operator, at)

	c := *analytics
	return &c, nil
}

func (r *AnalyticsRepository) Get(_ context.Context, tenantID string) (*domain.TipAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	analytics, ok := r.byTenant[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *analytics
	return &c, nil
}

func (r *AnalyticsRepository) Replace(_ context.Context, analytics *domain.TipAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *analytics
	r.byTenant[analytics.TenantID] = &c
	return nil
}

func (r *AnalyticsRepository) Ping(context.Context) error {
	return nil
}
