package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository/memory"
)

// MockAnalyticsRepository is a mock implementation of repository.AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Fold(ctx context.Context, tenantID string, delta repository.AnalyticsDelta, at time.Time) (*domain.TipAnalytics, error) {
	args := m.Called(ctx, tenantID, delta, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TipAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) Get(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TipAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) Replace(ctx context.Context, analytics *domain.TipAnalytics) error {
	return m.Called(ctx, analytics).Error(0)
}

func (m *MockAnalyticsRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestUpdater() (*Updater, *ledger.Store) {
	store := ledger.NewStore(memory.NewTransactionRepository(), zap.NewNop())
	return NewUpdater(memory.NewAnalyticsRepository(), store, zap.NewNop()), store
}

func TestUpdater_FoldTransaction(t *testing.T) {
	updater, _ := newTestUpdater()
	ctx := context.Background()

	first, err := updater.FoldTransaction(ctx, "biz_A", dec("25"), dec("19.2"), dec("4.8"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TipCount)
	assert.True(t, first.AverageTipAmount.Equal(dec("25")))

	second, err := updater.FoldTransaction(ctx, "biz_A", dec("15"), dec("12"), dec("3"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TipCount)
	assert.True(t, second.TotalTips.Equal(dec("40")))
	assert.True(t, second.TotalCreatorEarnings.Equal(dec("31.2")))
	assert.True(t, second.TotalOperatorEarnings.Equal(dec("7.8")))
	assert.True(t, second.AverageTipAmount.Equal(dec("20")))
}

func TestUpdater_FoldTransaction_MissingTenant(t *testing.T) {
	updater, _ := newTestUpdater()

	_, err := updater.FoldTransaction(context.Background(), "", dec("1"), dec("0.8"), dec("0.2"))

	assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))
}

func TestUpdater_FoldTransaction_RepositoryError(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	repo.On("Fold", mock.Anything, "biz_A", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	updater := NewUpdater(repo, nil, zap.NewNop())

	_, err := updater.FoldTransaction(context.Background(), "biz_A", dec("1"), dec("0.8"), dec("0.2"))

	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestUpdater_Get_DefaultsToZero(t *testing.T) {
	updater, _ := newTestUpdater()

	analytics, err := updater.Get(context.Background(), "biz_new")

	require.NoError(t, err)
	assert.Equal(t, "biz_new", analytics.TenantID)
	assert.Equal(t, int64(0), analytics.TipCount)
	assert.True(t, analytics.TotalTips.IsZero())
	assert.True(t, analytics.AverageTipAmount.IsZero())
}

func TestUpdater_Rebuild_MatchesLedger(t *testing.T) {
	updater, store := newTestUpdater()
	ctx := context.Background()

	for i, id := range []string{"pay_1", "pay_2"} {
		gross := decimal.NewFromInt(int64(10 * (i + 1)))
		_, err := store.RecordIfAbsent(ctx, &domain.TipTransaction{
			PaymentID:      id,
			TenantID:       "biz_A",
			FromUserID:     "user_1",
			GrossAmount:    gross,
			NetAmount:      gross,
			CreatorAmount:  gross.Mul(dec("0.8")),
			OperatorAmount: gross.Mul(dec("0.2")),
		})
		require.NoError(t, err)
	}

	// Aggregate drifts from the ledger
	_, err := updater.FoldTransaction(ctx, "biz_A", dec("999"), dec("0"), dec("0"))
	require.NoError(t, err)

	rebuilt, err := updater.Rebuild(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rebuilt.TipCount)
	assert.True(t, rebuilt.TotalTips.Equal(dec("30")))
	assert.True(t, rebuilt.AverageTipAmount.Equal(dec("15")))

	stored, err := updater.Get(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.TipCount)
}

func TestUpdater_RebuildAll_ContinuesPastFailures(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	store := ledger.NewStore(memory.NewTransactionRepository(), zap.NewNop())
	ctx := context.Background()
	for _, tenant := range []string{"biz_A", "biz_B"} {
		_, err := store.RecordIfAbsent(ctx, &domain.TipTransaction{
			PaymentID: "pay_" + tenant, TenantID: tenant, FromUserID: "user_1",
			GrossAmount: dec("10"), NetAmount: dec("10"), CreatorAmount: dec("8"), OperatorAmount: dec("2"),
		})
		require.NoError(t, err)
	}

	repo.On("Replace", mock.Anything, mock.MatchedBy(func(a *domain.TipAnalytics) bool { return a.TenantID == "biz_A" })).
		Return(errors.New("write failed"))
	repo.On("Replace", mock.Anything, mock.MatchedBy(func(a *domain.TipAnalytics) bool { return a.TenantID == "biz_B" })).
		Return(nil)
	updater := NewUpdater(repo, store, zap.NewNop())

	rebuilt, err := updater.RebuildAll(ctx)

	assert.Error(t, err)
	assert.Equal(t, 1, rebuilt)
	repo.AssertExpectations(t)
}
