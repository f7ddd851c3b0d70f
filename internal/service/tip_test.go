package service

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

	"github.com/BarkinBalci/tip-reconciliation-service/internal/analytics"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository/memory"
)

// MockCatalog is a mock implementation of Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) CreateTipPlan(ctx context.Context, companyID string, amount int64) (string, error) {
	args := m.Called(ctx, companyID, amount)
	return args.String(0), args.Error(1)
}

func (m *MockCatalog) CreateCheckoutConfiguration(ctx context.Context, companyID string, amount decimal.Decimal, metadata map[string]string) (*platform.CheckoutConfiguration, error) {
	args := m.Called(ctx, companyID, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.CheckoutConfiguration), args.Error(1)
}

type tipFixture struct {
	svc     *TipService
	ledger  *ledger.Store
	catalog *MockCatalog
}

func newTipFixture(t *testing.T) *tipFixture {
	t.Helper()
	log := zap.NewNop()

	splitter, err := payout.NewSplitter(payout.DefaultCreatorShare, payout.RemainderToOperator, log)
	require.NoError(t, err)

	store := ledger.NewStore(memory.NewTransactionRepository(), log)
	updater := analytics.NewUpdater(memory.NewAnalyticsRepository(), store, log)
	catalog := new(MockCatalog)

	svc := NewTipService(store, updater, memory.NewConfigRepository(), catalog, splitter, log)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	return &tipFixture{svc: svc, ledger: store, catalog: catalog}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestTipService_RecordTransaction(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	req := &dto.CreateTipTransactionRequest{
		PaymentID:  "pay_1",
		TenantID:   "biz_A",
		FromUserID: "user_1",
		Amount:     decPtr("25"),
		FeeAmount:  decPtr("1"),
	}

	first, err := f.svc.RecordTransaction(ctx, req)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "Anonymous", first.Data.FromUsername)
	assert.True(t, first.Data.NetAmount.Equal(decimal.RequireFromString("24")))
	assert.True(t, first.Data.CreatorAmount.Equal(decimal.RequireFromString("19.20")))
	assert.True(t, first.Data.OperatorAmount.Equal(decimal.RequireFromString("4.80")))
	assert.Equal(t, domain.StatusCompleted, first.Data.Status)

	second, err := f.svc.RecordTransaction(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "Transaction already recorded", second.Message)
	assert.Equal(t, first.Data.ID, second.Data.ID)
}

func TestTipService_RecordTransaction_Validation(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordTransaction(ctx, &dto.CreateTipTransactionRequest{
		PaymentID: "pay_1", TenantID: "biz_A", FromUserID: "user_1", Amount: decPtr("0"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.RecordTransaction(ctx, &dto.CreateTipTransactionRequest{
		PaymentID: "pay_1", TenantID: "biz_A", FromUserID: "user_1", Amount: decPtr("5"), Status: "refunded",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTipService_RecordTransaction_AmountInvariants(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateTipTransactionRequest
	}{
		{
			name: "net exceeds gross",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), NetAmount: decPtr("50"), CreatorAmount: decPtr("100")},
		},
		{
			name: "negative net",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), NetAmount: decPtr("-1")},
		},
		{
			name: "negative fee",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), FeeAmount: decPtr("-2")},
		},
		{
			name: "fee inconsistent with net",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), NetAmount: decPtr("9"), FeeAmount: decPtr("2")},
		},
		{
			name: "shares do not sum to net",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), CreatorAmount: decPtr("8"), OperatorAmount: decPtr("3")},
		},
		{
			name: "creator share above net",
			req:  dto.CreateTipTransactionRequest{Amount: decPtr("10"), CreatorAmount: decPtr("12")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTipFixture(t)
			ctx := context.Background()

			req := tt.req
			req.PaymentID, req.TenantID, req.FromUserID = "pay_1", "biz_A", "user_1"

			_, err := f.svc.RecordTransaction(ctx, &req)

			assert.ErrorIs(t, err, ErrValidation)
			_, err = f.ledger.Get(ctx, "pay_1")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestTipService_RecordTransaction_DerivesMissingShare(t *testing.T) {
	f := newTipFixture(t)

	resp, err := f.svc.RecordTransaction(context.Background(), &dto.CreateTipTransactionRequest{
		PaymentID:     "pay_1",
		TenantID:      "biz_A",
		FromUserID:    "user_1",
		Amount:        decPtr("10"),
		NetAmount:     decPtr("9.50"),
		CreatorAmount: decPtr("7"),
	})

	require.NoError(t, err)
	assert.True(t, resp.Data.FeeAmount.Equal(decimal.RequireFromString("0.50")))
	assert.True(t, resp.Data.OperatorAmount.Equal(decimal.RequireFromString("2.50")))
}

func TestTipService_UpdateStatus(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordTransaction(ctx, &dto.CreateTipTransactionRequest{
		PaymentID: "pay_1", TenantID: "biz_A", FromUserID: "user_1", Amount: decPtr("10"),
	})
	require.NoError(t, err)

	tx, err := f.svc.UpdateStatus(ctx, &dto.UpdateTipStatusRequest{PaymentID: "pay_1", Status: "failed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, tx.Status)
	assert.NotNil(t, tx.UpdatedAt)

	_, err = f.svc.UpdateStatus(ctx, &dto.UpdateTipStatusRequest{PaymentID: "pay_missing", Status: "failed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.UpdateStatus(ctx, &dto.UpdateTipStatusRequest{PaymentID: "pay_1", Status: "bogus"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTipService_ListHistory(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	for _, id := range []string{"pay_1", "pay_2", "pay_3"} {
		_, err := f.svc.RecordTransaction(ctx, &dto.CreateTipTransactionRequest{
			PaymentID: id, TenantID: "biz_A", FromUserID: "user_1", Amount: decPtr("5"),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.ListHistory(ctx, &dto.ListTipHistoryRequest{TenantID: "biz_A", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.True(t, resp.Pagination.HasMore)

	resp, err = f.svc.ListHistory(ctx, &dto.ListTipHistoryRequest{TenantID: "biz_B"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	assert.Equal(t, ledger.DefaultPageSize, resp.Pagination.Limit)
}

func TestTipService_FoldAndRebuildAnalytics(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	agg, err := f.svc.FoldAnalytics(ctx, &dto.FoldAnalyticsRequest{TenantID: "biz_A", TipAmount: decPtr("10")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.TipCount)
	assert.True(t, agg.TotalCreatorEarnings.Equal(decimal.RequireFromString("8")))
	assert.True(t, agg.TotalOperatorEarnings.Equal(decimal.RequireFromString("2")))

	_, err = f.svc.FoldAnalytics(ctx, &dto.FoldAnalyticsRequest{TenantID: "biz_A", TipAmount: decPtr("-1")})
	assert.ErrorIs(t, err, ErrValidation)

	// The ledger is the source of truth for a rebuild
	_, err = f.svc.RecordTransaction(ctx, &dto.CreateTipTransactionRequest{
		PaymentID: "pay_1", TenantID: "biz_A", FromUserID: "user_1", Amount: decPtr("30"),
	})
	require.NoError(t, err)

	resp, err := f.svc.RebuildAnalytics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rebuilt)
	assert.Empty(t, resp.Errors)

	agg, err = f.svc.GetAnalytics(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.TipCount)
	assert.True(t, agg.TotalTips.Equal(decimal.RequireFromString("30")))

	resp, err = f.svc.RebuildAnalytics(ctx, "biz_A")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rebuilt)
}

func TestTipService_GetConfig_Default(t *testing.T) {
	f := newTipFixture(t)

	cfg, err := f.svc.GetConfig(context.Background(), "biz_A", "exp_1")

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 50}, cfg.TipAmounts)
	assert.Equal(t, "exp_1", cfg.ExperienceID)
	assert.Equal(t, domain.DefaultWelcomeMessage, cfg.WelcomeMessage)
}

func TestTipService_SaveConfig_CreatesMissingPlans(t *testing.T) {
	f := newTipFixture(t)
	ctx := context.Background()

	f.catalog.On("CreateTipPlan", mock.Anything, "biz_A", int64(5)).Return("plan_5", nil).Once()
	f.catalog.On("CreateTipPlan", mock.Anything, "biz_A", int64(10)).Return("", errors.New("platform down")).Once()

	cfg, err := f.svc.SaveConfig(ctx, &dto.SaveTipConfigRequest{TenantID: "biz_A", TipAmounts: []int64{5, 10}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"5": "plan_5"}, cfg.PlanIDs)
	assert.Equal(t, domain.DefaultWelcomeMessage, cfg.WelcomeMessage)

	// Only the amount without a plan is retried
	f.catalog.On("CreateTipPlan", mock.Anything, "biz_A", int64(10)).Return("plan_10", nil).Once()

	updated, err := f.svc.SaveConfig(ctx, &dto.SaveTipConfigRequest{
		TenantID: "biz_A", TipAmounts: []int64{5, 10}, WelcomeMessage: "Cheers",
	})
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, updated.ID)
	assert.Equal(t, map[string]string{"5": "plan_5", "10": "plan_10"}, updated.PlanIDs)
	assert.Equal(t, "Cheers", updated.WelcomeMessage)
	f.catalog.AssertNumberOfCalls(t, "CreateTipPlan", 3)
}

func TestTipService_CreateCheckout(t *testing.T) {
	f := newTipFixture(t)

	f.catalog.On("CreateCheckoutConfiguration", mock.Anything, "biz_A", decimal.RequireFromString("10"),
		mock.MatchedBy(func(m map[string]string) bool {
			return m["tip_amount"] == "10" &&
				m["tip_jar_app"] == "tip_jar" &&
				m["created_at"] == "2025-01-02T03:04:05Z" &&
				m["experienceId"] == "exp_1"
		})).Return(&platform.CheckoutConfiguration{ID: "ch_1"}, nil)

	checkout, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{
		TenantID: "biz_A",
		Amount:   decPtr("10"),
		Metadata: map[string]string{"experienceId": "exp_1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_1", checkout.ID)
	f.catalog.AssertExpectations(t)
}

func TestTipService_CreateCheckout_InvalidAmount(t *testing.T) {
	f := newTipFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), &dto.CreateCheckoutRequest{TenantID: "biz_A", Amount: decPtr("0")})

	assert.ErrorIs(t, err, ErrValidation)
	f.catalog.AssertNotCalled(t, "CreateCheckoutConfiguration", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
