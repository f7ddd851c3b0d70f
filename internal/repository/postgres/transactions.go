package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
)

const transactionColumns = `id, payment_id, tenant_id, from_user_id, from_username,
	gross_amount, net_amount, creator_amount, operator_amount, fee_amount,
	status, experience_id, experience_name, tipper_id, tipper_name,
	created_at, updated_at`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
// The unique constraint on payment_id makes InsertIfAbsent safe under
// concurrent deliveries.
type TransactionRepository struct {
	client *Client
	log    *zap.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(client *Client, log *zap.Logger) *TransactionRepository {
	return &TransactionRepository{client: client, log: log}
}

func (r *TransactionRepository) InsertIfAbsent(ctx context.Context, tx *domain.TipTransaction) (*domain.TipTransaction, bool, error) {
	query := `
		INSERT INTO tip_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (payment_id) DO NOTHING
		RETURNING ` + transactionColumns

	row := r.client.Pool().QueryRow(ctx, query,
		tx.ID, tx.PaymentID, tx.TenantID, tx.FromUserID, tx.FromUsername,
		tx.GrossAmount, tx.NetAmount, tx.CreatorAmount, tx.OperatorAmount, tx.FeeAmount,
		string(tx.Status), tx.ExperienceID, tx.ExperienceName, tx.TipperID, tx.TipperName,
		tx.CreatedAt, tx.UpdatedAt)

	stored, err := scanTransaction(row)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	existing, err := r.GetByPaymentID(ctx, tx.PaymentID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing transaction: %w", err)
	}
	return existing, false, nil
}

func (r *TransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.TipTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM tip_transactions WHERE payment_id = $1`

	tx, err := scanTransaction(r.client.Pool().QueryRow(ctx, query, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, paymentID string, status domain.TransactionStatus, at time.Time) (*domain.TipTransaction, error) {
	query := `
		UPDATE tip_transactions
		SET status = $2, updated_at = $3
		WHERE payment_id = $1
		RETURNING ` + transactionColumns

	tx, err := scanTransaction(r.client.Pool().QueryRow(ctx, query, paymentID, string(status), at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, q repository.TransactionQuery) ([]*domain.TipTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM tip_transactions
		WHERE tenant_id = $1
		ORDER BY created_at DESC, payment_id DESC
		LIMIT $2 OFFSET $3`

	limit := any(nil)
	if q.Limit > 0 {
		limit = q.Limit
	}

	rows, err := r.client.Pool().Query(ctx, query, q.TenantID, limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.TipTransaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) AggregateCompleted(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	query := `
		SELECT
			COALESCE(SUM(gross_amount), 0),
			COALESCE(SUM(creator_amount), 0),
			COALESCE(SUM(operator_amount), 0),
			COUNT(*),
			COALESCE(MAX(created_at), 'epoch'::timestamptz)
		FROM tip_transactions
		WHERE tenant_id = $1 AND status = $2`

	analytics := domain.NewTipAnalytics(tenantID)
	err := r.client.Pool().QueryRow(ctx, query, tenantID, string(domain.StatusCompleted)).Scan(
		&analytics.TotalTips,
		&analytics.TotalCreatorEarnings,
		&analytics.TotalOperatorEarnings,
		&analytics.TipCount,
		&analytics.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	if analytics.TipCount == 0 {
		analytics.LastUpdated = time.Time{}
	}

	analytics.RecomputeAverage()
	return analytics, nil
}

func (r *TransactionRepository) Tenants(ctx context.Context) ([]string, error) {
	rows, err := r.client.Pool().Query(ctx, `SELECT DISTINCT tenant_id FROM tip_transactions ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	tenants, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenants: %w", err)
	}
	return tenants, nil
}

func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func scanTransaction(row pgx.Row) (*domain.TipTransaction, error) {
	var tx domain.TipTransaction
	var status string
	err := row.Scan(
		&tx.ID, &tx.PaymentID, &tx.TenantID, &tx.FromUserID, &tx.FromUsername,
		&tx.GrossAmount, &tx.NetAmount, &tx.CreatorAmount, &tx.OperatorAmount, &tx.FeeAmount,
		&status, &tx.ExperienceID, &tx.ExperienceName, &tx.TipperID, &tx.TipperName,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Status = domain.TransactionStatus(status)
	return &tx, nil
}
