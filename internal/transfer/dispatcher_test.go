package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
)

// MockPlatform is a mock implementation of Platform
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) ResolveLedgerAccount(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) CreateTransfer(ctx context.Context, req platform.TransferRequest) (*platform.Transfer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Transfer), args.Error(1)
}

func newTestDispatcher(p Platform) *Dispatcher {
	return NewDispatcher(p, "user_operator", "", DefaultMinimum, zap.NewNop())
}

func TestDispatcher_DispatchOperatorShare_Success(t *testing.T) {
	mockPlatform := new(MockPlatform)
	ctx := context.Background()

	mockPlatform.On("ResolveLedgerAccount", ctx, "biz_A").Return("ldgr_A", nil)
	mockPlatform.On("ResolveLedgerAccount", ctx, "user_operator").Return("ldgr_op", nil)
	mockPlatform.On("CreateTransfer", ctx, mock.MatchedBy(func(req platform.TransferRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("4.80")) &&
			req.OriginID == "ldgr_A" &&
			req.DestinationID == "ldgr_op" &&
			req.IdempotenceKey == "payout:pay_1" &&
			req.Currency == "usd"
	})).Return(&platform.Transfer{ID: "xfer_1"}, nil)

	outcome, err := newTestDispatcher(mockPlatform).DispatchOperatorShare(ctx, "biz_A", decimal.RequireFromString("4.80"), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeTransferred, outcome)
	mockPlatform.AssertExpectations(t)
}

func TestDispatcher_DispatchOperatorShare_ResolveFallsBackToRawID(t *testing.T) {
	mockPlatform := new(MockPlatform)
	ctx := context.Background()

	mockPlatform.On("ResolveLedgerAccount", ctx, "biz_A").Return("", errors.New("not found"))
	mockPlatform.On("ResolveLedgerAccount", ctx, "user_operator").Return("", errors.New("not found"))
	mockPlatform.On("CreateTransfer", ctx, mock.MatchedBy(func(req platform.TransferRequest) bool {
		return req.OriginID == "biz_A" && req.DestinationID == "user_operator"
	})).Return(&platform.Transfer{ID: "xfer_1"}, nil)

	outcome, err := newTestDispatcher(mockPlatform).DispatchOperatorShare(ctx, "biz_A", decimal.NewFromInt(2), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeTransferred, outcome)
	mockPlatform.AssertExpectations(t)
}

func TestDispatcher_DispatchOperatorShare_LedgerIDNotResolved(t *testing.T) {
	mockPlatform := new(MockPlatform)
	ctx := context.Background()

	mockPlatform.On("ResolveLedgerAccount", ctx, "biz_A").Return("ldgr_A", nil)
	mockPlatform.On("CreateTransfer", ctx, mock.MatchedBy(func(req platform.TransferRequest) bool {
		return req.OriginID == "ldgr_A" && req.DestinationID == "ldgr_operator"
	})).Return(&platform.Transfer{ID: "xfer_1"}, nil)

	d := NewDispatcher(mockPlatform, "ldgr_operator", "", DefaultMinimum, zap.NewNop())
	outcome, err := d.DispatchOperatorShare(ctx, "biz_A", decimal.NewFromInt(2), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeTransferred, outcome)
	mockPlatform.AssertNotCalled(t, "ResolveLedgerAccount", ctx, "ldgr_operator")
	mockPlatform.AssertExpectations(t)
}

func TestDispatcher_DispatchOperatorShare_BelowMinimum(t *testing.T) {
	mockPlatform := new(MockPlatform)

	outcome, err := newTestDispatcher(mockPlatform).DispatchOperatorShare(context.Background(), "biz_A", decimal.RequireFromString("0.009"), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeBelowMinimum, outcome)
	mockPlatform.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything)
}

func TestDispatcher_DispatchOperatorShare_SelfTransfer(t *testing.T) {
	mockPlatform := new(MockPlatform)

	outcome, err := newTestDispatcher(mockPlatform).DispatchOperatorShare(context.Background(), "user_operator", decimal.NewFromInt(5), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, OutcomeSelfTransfer, outcome)
	mockPlatform.AssertNotCalled(t, "ResolveLedgerAccount", mock.Anything, mock.Anything)
	mockPlatform.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything)
}

func TestDispatcher_DispatchOperatorShare_TransferFails(t *testing.T) {
	mockPlatform := new(MockPlatform)
	ctx := context.Background()

	mockPlatform.On("ResolveLedgerAccount", ctx, mock.Anything).Return("ldgr", nil)
	mockPlatform.On("CreateTransfer", ctx, mock.Anything).Return(nil, errors.New("insufficient balance"))

	outcome, err := newTestDispatcher(mockPlatform).DispatchOperatorShare(ctx, "biz_A", decimal.NewFromInt(5), "pay_1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient balance")
	assert.Equal(t, OutcomeFailed, outcome)
}

func TestIdempotencyKey(t *testing.T) {
	assert.Equal(t, "payout:pay_1", IdempotencyKey("pay_1"))
	assert.Equal(t, IdempotencyKey("pay_1"), IdempotencyKey("pay_1"))
}
