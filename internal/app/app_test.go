package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Service: config.Service{Environment: "development"},
		Platform: config.Platform{
			BaseURL:    "http://127.0.0.1:0",
			TimeoutSec: 1,
			MaxRetries: 1,
		},
		Payout: config.Payout{
			OperatorAccountID: "user_operator",
			CreatorShare:      decimal.RequireFromString("0.8"),
			RemainderTo:       "operator",
			MinTransfer:       decimal.RequireFromString("0.01"),
			Currency:          "usd",
		},
		Storage: config.Storage{Driver: config.StorageMemory},
		Queue:   config.Queue{Driver: config.QueueInProcess},
	}
}

func TestBuild_Memory(t *testing.T) {
	a, err := Build(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Ledger)
	assert.NotNil(t, a.Analytics)
	assert.NotNil(t, a.Configs)
	assert.NotNil(t, a.Platform)
	assert.NotNil(t, a.Pipeline)
	require.Contains(t, a.HealthChecks, "memory")
	assert.NoError(t, a.HealthChecks["memory"].Ping(context.Background()))

	split := a.Splitter.Split(decimal.RequireFromString("10"))
	assert.True(t, split.Creator.Equal(decimal.RequireFromString("8")))
	assert.True(t, split.Operator.Equal(decimal.RequireFromString("2")))
}

func TestBuild_InvalidRemainderRule(t *testing.T) {
	cfg := memoryConfig()
	cfg.Payout.RemainderTo = "nobody"

	_, err := Build(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "remainder rule")
}
