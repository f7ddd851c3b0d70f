package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository in memory
type TransactionRepository struct {
	mu        sync.RWMutex
	byPayment map[string]*domain.TipTransaction
}

// NewTransactionRepository creates an empty in-memory transaction repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{byPayment: make(map[string]*domain.TipTransaction)}
}

// InsertIfAbsent stores a copy of tx unless the payment id is known
func (r *TransactionRepository) InsertIfAbsent(_ context.Context, tx *domain.TipTransaction) (*domain.TipTransaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byPayment[tx.PaymentID]; ok {
		return copyTransaction(existing), false, nil
	}

	r.byPayment[tx.PaymentID] = copyTransaction(tx)
	return copyTransaction(tx), true, nil
}

// GetByPaymentID returns a copy of the stored record
func (r *TransactionRepository) GetByPaymentID(_ context.Context, paymentID string) (*domain.TipTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byPayment[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTransaction(tx), nil
}

// UpdateStatus sets status and updated time on the stored record
func (r *TransactionRepository) UpdateStatus(_ context.Context, paymentID string, status domain.TransactionStatus, at time.Time) (*domain.TipTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.byPayment[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	tx.Status = status
	updated := at
	tx.UpdatedAt = &updated
	return copyTransaction(tx), nil
}

// List returns the tenant's records ordered by creation time, newest first
func (r *TransactionRepository) List(_ context.Context, query repository.TransactionQuery) ([]*domain.TipTransaction, error) {
	r.mu.RLock()
	var matched []*domain.TipTransaction
	for _, tx := range r.byPayment {
		if tx.TenantID == query.TenantID {
			matched = append(matched, copyTransaction(tx))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].PaymentID > matched[j].PaymentID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if query.Offset >= len(matched) {
		return []*domain.TipTransaction{}, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// AggregateCompleted folds every completed record of the tenant
func (r *TransactionRepository) AggregateCompleted(_ context.Context, tenantID string) (*domain.TipAnalytics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analytics := domain.NewTipAnalytics(tenantID)
	var latest time.Time
	for _, tx := range r.byPayment {
		if tx.TenantID != tenantID || tx.Status != domain.StatusCompleted {
			continue
		}
		analytics.Fold(tx.GrossAmount, tx.CreatorAmount, tx.OperatorAmount, tx.CreatedAt)
		if tx.CreatedAt.After(latest) {
			latest = tx.CreatedAt
		}
	}
	analytics.LastUpdated = latest

	return analytics, nil
}

// Tenants returns the distinct tenant ids in sorted order
func (r *TransactionRepository) Tenants(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tx := range r.byPayment {
		seen[tx.TenantID] = struct{}{}
	}

	tenants := make([]string, 0, len(seen))
	for tenant := range seen {
		tenants = append(tenants, tenant)
	}
	sort.Strings(tenants)
	return tenants, nil
}

// Ping always succeeds
func (r *TransactionRepository) Ping(context.Context) error {
	return nil
}

func copyTransaction(tx *domain.TipTransaction) *domain.TipTransaction {
	c := *tx
	if tx.UpdatedAt != nil {
		updated := *tx.UpdatedAt
		c.UpdatedAt = &updated
	}
	return &c
}
