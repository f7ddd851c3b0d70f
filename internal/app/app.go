package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/analytics"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/config"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/handler"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/reconcile"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository/clickhouse"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository/memory"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository/postgres"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/transfer"
)

// App holds the components shared by the API and the consumer
type App struct {
	Ledger       *ledger.Store
	Analytics    *analytics.Updater
	Configs      repository.ConfigRepository
	Platform     *platform.Client
	Splitter     *payout.Splitter
	Pipeline     *reconcile.Pipeline
	HealthChecks map[string]handler.Pinger

	closers []func()
	log     *zap.Logger
}

// Build opens the configured stores and wires the reconciliation pipeline
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		HealthChecks: make(map[string]handler.Pinger),
		log:          log,
	}

	transactions, analyticsRepo, configs, err := a.openStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Configs = configs

	rule, err := payout.ParseRemainderRule(cfg.Payout.RemainderTo)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid payout remainder rule: %w", err)
	}
	a.Splitter, err = payout.NewSplitter(cfg.Payout.CreatorShare, rule, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	a.Platform = platform.NewClient(platform.Config{
		BaseURL:    cfg.Platform.BaseURL,
		APIKey:     cfg.Platform.APIKey,
		Timeout:    time.Duration(cfg.Platform.TimeoutSec) * time.Second,
		MaxRetries: cfg.Platform.MaxRetries,
	}, log)

	a.Ledger = ledger.NewStore(transactions, log)
	a.Analytics = analytics.NewUpdater(analyticsRepo, a.Ledger, log)
	transfers := transfer.NewDispatcher(a.Platform, cfg.Payout.OperatorAccountID, cfg.Payout.Currency, cfg.Payout.MinTransfer, log)
	a.Pipeline = reconcile.NewPipeline(a.Ledger, a.Splitter, transfers, a.Analytics, log)

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config) (repository.TransactionRepository, repository.AnalyticsRepository, repository.ConfigRepository, error) {
	var (
		transactions  repository.TransactionRepository
		analyticsRepo repository.AnalyticsRepository
		configs       repository.ConfigRepository
		pgClient      *postgres.Client
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if cfg.Postgres.MigrateOnStart {
			if err := postgres.Migrate(cfg.Postgres.DSN, a.log); err != nil {
				return nil, nil, nil, fmt.Errorf("failed to migrate PostgreSQL: %w", err)
			}
		}

		client, err := postgres.NewClient(ctx, &cfg.Postgres, a.log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create PostgreSQL client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		pgClient = client

		transactions = postgres.NewTransactionRepository(client, a.log)
		configs = postgres.NewConfigRepository(client, a.log)
		a.HealthChecks["postgres"] = client
	default:
		transactions = memory.NewTransactionRepository()
		configs = memory.NewConfigRepository()
		a.HealthChecks["memory"] = transactions
	}

	switch cfg.AnalyticsDriver() {
	case config.StorageClickHouse:
		client, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, a.log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create ClickHouse client: %w", err)
		}
		repo := clickhouse.NewAnalyticsRepository(client, a.log)
		a.closers = append(a.closers, func() {
			if err := repo.Close(); err != nil {
				a.log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		})

		if err := repo.InitSchema(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize ClickHouse schema: %w", err)
		}
		a.log.Info("ClickHouse schema initialized")

		analyticsRepo = repo
		a.HealthChecks["clickhouse"] = repo
	case config.StoragePostgres:
		if pgClient == nil {
			return nil, nil, nil, errors.New("postgres analytics requires STORAGE_DRIVER=postgres")
		}
		analyticsRepo = postgres.NewAnalyticsRepository(pgClient, a.log)
	default:
		analyticsRepo = memory.NewAnalyticsRepository()
	}

	a.log.Info("Storage initialized",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("analytics_driver", cfg.AnalyticsDriver()))

	return transactions, analyticsRepo, configs, nil
}

// Close releases store connections in reverse order of opening
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
