package transfer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
)

// Platform is the subset of the platform API used to move funds
type Platform interface {
	ResolveLedgerAccount(ctx context.Context, accountID string) (string, error)
	CreateTransfer(ctx context.Context, req platform.TransferRequest) (*platform.Transfer, error)
}

// Outcome describes what DispatchOperatorShare did
type Outcome string

const (
	OutcomeTransferred  Outcome = "transferred"
	OutcomeBelowMinimum Outcome = "skipped_below_minimum"
	OutcomeSelfTransfer Outcome = "skipped_self_transfer"
	OutcomeFailed       Outcome = "failed"
)

// DefaultMinimum is one cent
var DefaultMinimum = decimal.RequireFromString("0.01")

// IdempotencyKey derives the transfer key for a payment
func IdempotencyKey(paymentID string) string {
	return "payout:" + paymentID
}

// Dispatcher moves the operator share out of the tenant balance
type Dispatcher struct {
	platform   Platform
	operatorID string
	currency   string
	minimum    decimal.Decimal
	log        *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(p Platform, operatorID, currency string, minimum decimal.Decimal, log *zap.Logger) *Dispatcher {
	if currency == "" {
		currency = platform.DefaultCurrency
	}
	return &Dispatcher{
		platform:   p,
		operatorID: operatorID,
		currency:   currency,
		minimum:    minimum,
		log:        log,
	}
}

// DispatchOperatorShare transfers amount from tenantID to the operator.
// Failures are logged with full context and returned for the caller to
// record; they are never retried here.
func (d *Dispatcher) DispatchOperatorShare(ctx context.Context, tenantID string, amount decimal.Decimal, paymentID string) (Outcome, error) {
	fields := []zap.Field{
		zap.String("payment_id", paymentID),
		zap.String("tenant_id", tenantID),
		zap.String("operator_id", d.operatorID),
		zap.String("amount", amount.StringFixed(2)),
	}

	if amount.LessThan(d.minimum) {
		d.log.Info("Operator share below transfer minimum, skipping", fields...)
		return OutcomeBelowMinimum, nil
	}

	if d.operatorID == tenantID {
		d.log.Info("Operator account equals tenant account, skipping transfer", fields...)
		return OutcomeSelfTransfer, nil
	}

	origin := d.resolve(ctx, tenantID, paymentID)
	destination := d.resolve(ctx, d.operatorID, paymentID)

	transfer, err := d.platform.CreateTransfer(ctx, platform.TransferRequest{
		Amount:         amount,
		Currency:       d.currency,
		OriginID:       origin,
		DestinationID:  destination,
		IdempotenceKey: IdempotencyKey(paymentID),
		Notes:          fmt.Sprintf("Operator share for tip payment %s", paymentID),
	})
	if err != nil {
		d.log.Error("Failed to transfer operator share",
			append(fields,
				zap.Error(err),
				zap.String("origin_account", origin),
				zap.String("destination_account", destination),
				zap.Bool("manual_intervention", true))...)
		return OutcomeFailed, fmt.Errorf("failed to transfer operator share: %w", err)
	}

	d.log.Info("Operator share transferred",
		append(fields, zap.String("transfer_id", transfer.ID))...)

	return OutcomeTransferred, nil
}

// resolve maps user and company ids to their ledger accounts, falling back
// to the raw id when the lookup fails. Ids outside both namespaces are
// taken to be ledger account ids already.
func (d *Dispatcher) resolve(ctx context.Context, accountID, paymentID string) string {
	kind := platform.KindOf(accountID)
	if kind == platform.AccountUnknown {
		d.log.Debug("Account id has no user or company prefix, using it as ledger account",
			zap.String("payment_id", paymentID),
			zap.String("account_id", accountID))
		return accountID
	}

	ledgerID, err := d.platform.ResolveLedgerAccount(ctx, accountID)
	if err != nil {
		d.log.Warn("Failed to resolve ledger account, using raw id",
			zap.Error(err),
			zap.String("payment_id", paymentID),
			zap.String("account_id", accountID),
			zap.String("account_kind", string(kind)))
		return accountID
	}
	return ledgerID
}
