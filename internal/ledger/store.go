package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Result is the outcome of RecordIfAbsent
type Result struct {
	Created bool
	Record  *domain.TipTransaction
}

// Page is one page of a tenant's history
type Page struct {
	Transactions []*domain.TipTransaction
	HasMore      bool
}

// Store owns the tip transaction lifecycle
type Store struct {
	repo repository.TransactionRepository
	now  func() time.Time
	log  *zap.Logger
}

// NewStore creates a new Store
func NewStore(repo repository.TransactionRepository, log *zap.Logger) *Store {
	return &Store{repo: repo, now: time.Now, log: log}
}

// RecordIfAbsent persists tx unless its payment id was already recorded,
// in which case the stored record is returned unchanged
func (s *Store) RecordIfAbsent(ctx context.Context, tx *domain.TipTransaction) (*Result, error) {
	if tx.PaymentID == "" {
		return nil, fmt.Errorf("%w: payment_id", domain.ErrMissingRequiredField)
	}

	record := *tx
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = domain.StatusCompleted
	}
	if !record.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, record.Status)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	stored, created, err := s.repo.InsertIfAbsent(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if !created {
		s.log.Info("Duplicate delivery, transaction already recorded",
			zap.String("payment_id", tx.PaymentID),
			zap.String("transaction_id", stored.ID))
		return &Result{Created: false, Record: stored}, nil
	}

	s.log.Info("Transaction recorded",
		zap.String("payment_id", stored.PaymentID),
		zap.String("transaction_id", stored.ID),
		zap.String("tenant_id", stored.TenantID))

	return &Result{Created: true, Record: stored}, nil
}

// UpdateStatus changes the status of a recorded transaction
func (s *Store) UpdateStatus(ctx context.Context, paymentID string, status domain.TransactionStatus) (*domain.TipTransaction, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	tx, err := s.repo.UpdateStatus(ctx, paymentID, status, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update status of %s: %w", paymentID, err)
	}

	s.log.Info("Transaction status updated",
		zap.String("payment_id", paymentID),
		zap.String("status", string(status)))

	return tx, nil
}

// Get returns the transaction recorded for paymentID
func (s *Store) Get(ctx context.Context, paymentID string) (*domain.TipTransaction, error) {
	return s.repo.GetByPaymentID(ctx, paymentID)
}

// List returns a page of the tenant's transactions, newest first
func (s *Store) List(ctx context.Context, tenantID string, limit, offset int) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.repo.List(ctx, repository.TransactionQuery{
		TenantID: tenantID,
		Limit:    limit + 1,
		Offset:   offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	page := &Page{Transactions: transactions}
	if len(transactions) > limit {
		page.Transactions = transactions[:limit]
		page.HasMore = true
	}
	return page, nil
}

// AggregateCompleted recomputes a tenant aggregate from its completed records
func (s *Store) AggregateCompleted(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	return s.repo.AggregateCompleted(ctx, tenantID)
}

// Tenants lists tenants with recorded transactions
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	return s.repo.Tenants(ctx)
}
