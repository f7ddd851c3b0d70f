package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

func newTransaction(paymentID, tenantID string, gross string, createdAt time.Time) *domain.TipTransaction {
	g := decimal.RequireFromString(gross)
	creator := g.Mul(decimal.RequireFromString("0.8"))
	return &domain.TipTransaction{
		ID:             "doc_" + paymentID,
		PaymentID:      paymentID,
		TenantID:       tenantID,
		FromUserID:     "user_1",
		GrossAmount:    g,
		NetAmount:      g,
		CreatorAmount:  creator,
		OperatorAmount: g.Sub(creator),
		Status:         domain.StatusCompleted,
		CreatedAt:      createdAt,
	}
}

func TestTransactionRepository_InsertIfAbsent(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()
	now := time.Now()

	stored, created, err := repo.InsertIfAbsent(ctx, newTransaction("pay_1", "biz_A", "10", now))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "doc_pay_1", stored.ID)

	second := newTransaction("pay_1", "biz_A", "99", now)
	second.ID = "doc_other"
	stored, created, err = repo.InsertIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "doc_pay_1", stored.ID)
	assert.True(t, stored.GrossAmount.Equal(decimal.NewFromInt(10)))
}

func TestTransactionRepository_InsertIfAbsent_Concurrent(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.InsertIfAbsent(ctx, newTransaction("pay_1", "biz_A", "10", time.Now()))
			assert.NoError(t, err)
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, createdCount)
}

func TestTransactionRepository_UpdateStatus(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()
	_, _, err := repo.InsertIfAbsent(ctx, newTransaction("pay_1", "biz_A", "10", time.Now()))
	require.NoError(t, err)

	at := time.Now().Add(time.Hour)
	updated, err := repo.UpdateStatus(ctx, "pay_1", domain.StatusFailed, at)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, at, *updated.UpdatedAt)

	_, err = repo.UpdateStatus(ctx, "pay_missing", domain.StatusFailed, at)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTransactionRepository_List(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"pay_1", "pay_2", "pay_3"} {
		_, _, err := repo.InsertIfAbsent(ctx, newTransaction(id, "biz_A", "10", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, _, err := repo.InsertIfAbsent(ctx, newTransaction("pay_other", "biz_B", "10", base))
	require.NoError(t, err)

	page, err := repo.List(ctx, repository.TransactionQuery{TenantID: "biz_A", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "pay_3", page[0].PaymentID)
	assert.Equal(t, "pay_2", page[1].PaymentID)

	page, err = repo.List(ctx, repository.TransactionQuery{TenantID: "biz_A", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "pay_1", page[0].PaymentID)

	page, err = repo.List(ctx, repository.TransactionQuery{TenantID: "biz_A", Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestTransactionRepository_AggregateCompleted(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, _ = repo.InsertIfAbsent(ctx, newTransaction("pay_1", "biz_A", "10", base))
	_, _, _ = repo.InsertIfAbsent(ctx, newTransaction("pay_2", "biz_A", "20", base.Add(time.Hour)))
	failed := newTransaction("pay_3", "biz_A", "50", base)
	failed.Status = domain.StatusFailed
	_, _, _ = repo.InsertIfAbsent(ctx, failed)

	analytics, err := repo.AggregateCompleted(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.TipCount)
	assert.True(t, analytics.TotalTips.Equal(decimal.NewFromInt(30)))
	assert.True(t, analytics.AverageTipAmount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, base.Add(time.Hour), analytics.LastUpdated)

	tenants, err := repo.Tenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"biz_A"}, tenants)
}

func TestAnalyticsRepository_Fold(t *testing.T) {
	repo := NewAnalyticsRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "biz_A")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	delta := repository.AnalyticsDelta{
		Gross:    decimal.NewFromInt(25),
		Creator:  decimal.RequireFromString("19.2"),
		Operator: decimal.RequireFromString("4.8"),
	}
	_, err = repo.Fold(ctx, "biz_A", delta, time.Now())
	require.NoError(t, err)
	analytics, err := repo.Fold(ctx, "biz_A", delta, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(2), analytics.TipCount)
	assert.True(t, analytics.TotalTips.Equal(decimal.NewFromInt(50)))
	assert.True(t, analytics.AverageTipAmount.Equal(decimal.NewFromInt(25)))
}

func TestAnalyticsRepository_Replace(t *testing.T) {
	repo := NewAnalyticsRepository()
	ctx := context.Background()

	replacement := domain.NewTipAnalytics("biz_A")
	replacement.TipCount = 3
	require.NoError(t, repo.Replace(ctx, replacement))

	stored, err := repo.Get(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.TipCount)
}

func TestConfigRepository_Upsert(t *testing.T) {
	repo := NewConfigRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "biz_A")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	first, err := repo.Upsert(ctx, &domain.TipConfig{TenantID: "biz_A", TipAmounts: []int64{5}, CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := repo.Upsert(ctx, &domain.TipConfig{TenantID: "biz_A", TipAmounts: []int64{10, 20}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	stored, err := repo.Get(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, stored.TipAmounts)
}
