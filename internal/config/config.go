package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

const (
	EnvironmentProduction = "production"

	StorageMemory     = "memory"
	StoragePostgres   = "postgres"
	StorageClickHouse = "clickhouse"

	QueueInProcess = "inprocess"
	QueueSQS       = "sqs"
)

// Config is read from SECTION_FIELD variables. Leaf fields named like common
// variables (HOST, USER, PORT) carry no envconfig tag so lookup never falls
// back to the unprefixed name.
type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Webhook    Webhook    `envconfig:"WEBHOOK"`
	Platform   Platform   `envconfig:"PLATFORM"`
	Payout     Payout     `envconfig:"PAYOUT"`
	Storage    Storage    `envconfig:"STORAGE"`
	Postgres   Postgres   `envconfig:"POSTGRES"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	Queue      Queue      `envconfig:"QUEUE"`
	SQS        SQS        `envconfig:"SQS"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
	Jobs       Jobs       `envconfig:"JOBS"`
}

type Service struct {
	Environment        string   `required:"true"`
	APIPort            string   `envconfig:"API_PORT" default:"8080"`
	Host               string   `default:"localhost:8080"`
	ShutdownTimeoutSec int      `envconfig:"SHUTDOWN_TIMEOUT_SEC" default:"30"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type Webhook struct {
	Secret       string
	ToleranceSec int `envconfig:"TOLERANCE_SEC" default:"300"`
}

type Platform struct {
	BaseURL    string `envconfig:"BASE_URL" default:"https://api.whop.com/api/v1"`
	APIKey     string `envconfig:"API_KEY"`
	TimeoutSec int    `envconfig:"TIMEOUT_SEC" default:"10"`
	MaxRetries int    `envconfig:"MAX_RETRIES" default:"3"`
}

type Payout struct {
	OperatorAccountID string          `envconfig:"OPERATOR_ACCOUNT_ID" required:"true"`
	CreatorShare      decimal.Decimal `envconfig:"CREATOR_SHARE" default:"0.80"`
	RemainderTo       string          `envconfig:"REMAINDER_TO" default:"operator"`
	MinTransfer       decimal.Decimal `envconfig:"MIN_TRANSFER" default:"0.01"`
	Currency          string          `default:"usd"`
}

type Storage struct {
	Driver          string `default:"memory"`
	AnalyticsDriver string `envconfig:"ANALYTICS_DRIVER"`
}

type Postgres struct {
	DSN            string
	MaxConns       int32 `envconfig:"MAX_CONNS" default:"10"`
	MinConns       int32 `envconfig:"MIN_CONNS" default:"2"`
	MigrateOnStart bool  `envconfig:"MIGRATE_ON_START" default:"true"`
}

type ClickHouse struct {
	Host            string
	Port            string `default:"9000"`
	Database        string `envconfig:"DB" default:"default"`
	User            string
	Password        string
	UseTLS          bool `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int  `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int  `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int  `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Queue struct {
	Driver string `default:"inprocess"`
}

type SQS struct {
	Endpoint string
	QueueURL string `envconfig:"QUEUE_URL"`
	Region   string `default:"us-east-1"`
}

type Consumer struct {
	HealthCheckPort      string `envconfig:"HEALTH_CHECK_PORT" default:"8081"`
	MaxMessages          int32  `envconfig:"MAX_MESSAGES" default:"10"`
	WaitTimeSeconds      int32  `envconfig:"WAIT_TIME_SECONDS" default:"20"`
	VisibilityTimeoutSec int32  `envconfig:"VISIBILITY_TIMEOUT_SEC" default:"60"`
	RetryDelaySec        int32  `envconfig:"RETRY_DELAY_SEC" default:"10"`
	Workers              int    `default:"4"`
}

type Jobs struct {
	AnalyticsRebuildCron string `envconfig:"ANALYTICS_REBUILD_CRON" default:"0 3 * * *"`
	Timezone             string `default:"UTC"`
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Payout.OperatorAccountID) == "" {
		return errors.New("PAYOUT_OPERATOR_ACCOUNT_ID must not be empty")
	}

	if c.IsProduction() && !c.Webhook.SignatureEnforced() {
		return errors.New("WEBHOOK_SECRET is required in production")
	}

	if !c.Payout.CreatorShare.IsPositive() || c.Payout.CreatorShare.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYOUT_CREATOR_SHARE must be within (0, 1], got %s", c.Payout.CreatorShare)
	}
	if c.Payout.MinTransfer.IsNegative() {
		return fmt.Errorf("PAYOUT_MIN_TRANSFER must not be negative, got %s", c.Payout.MinTransfer)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %q (supported: memory, postgres)", c.Storage.Driver)
	}

	switch c.AnalyticsDriver() {
	case StorageMemory:
		if c.Storage.Driver != StorageMemory {
			return errors.New("STORAGE_ANALYTICS_DRIVER=memory requires STORAGE_DRIVER=memory")
		}
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for postgres analytics")
		}
	case StorageClickHouse:
		if c.ClickHouse.Host == "" {
			return errors.New("CLICKHOUSE_HOST is required when STORAGE_ANALYTICS_DRIVER=clickhouse")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_ANALYTICS_DRIVER: %q (supported: memory, postgres, clickhouse)", c.Storage.AnalyticsDriver)
	}

	switch c.Queue.Driver {
	case QueueInProcess:
	case QueueSQS:
		if c.SQS.QueueURL == "" || c.SQS.Region == "" {
			return errors.New("SQS_QUEUE_URL and SQS_REGION are required when QUEUE_DRIVER=sqs")
		}
		if c.Storage.Driver == StorageMemory {
			return errors.New("QUEUE_DRIVER=sqs requires shared storage, STORAGE_DRIVER=memory is process-local")
		}
	default:
		return fmt.Errorf("unsupported QUEUE_DRIVER: %q (supported: inprocess, sqs)", c.Queue.Driver)
	}

	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Service.Environment == EnvironmentProduction
}

// AnalyticsDriver returns the analytics store, defaulting to the main store
func (c *Config) AnalyticsDriver() string {
	if c.Storage.AnalyticsDriver != "" {
		return c.Storage.AnalyticsDriver
	}
	return c.Storage.Driver
}

// SignatureEnforced reports whether a usable secret is configured
func (w Webhook) SignatureEnforced() bool {
	secret := strings.TrimSpace(w.Secret)
	return secret != "" && secret != webhook.PlaceholderSecret
}
