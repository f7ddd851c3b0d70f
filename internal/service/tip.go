package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/ledger"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/payout"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/platform"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/repository"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/webhook"
)

const (
	checkoutAppTag  = "tip_jar"
	minorUnitPlaces = 2
)

// TipService represents tip service
type TipService struct {
	ledger    TransactionLedger
	analytics AnalyticsUpdater
	configs   repository.ConfigRepository
	catalog   Catalog
	splitter  *payout.Splitter
	log       *zap.Logger
	now       func() time.Time
}

// NewTipService creates a new tip service
func NewTipService(
	ledger TransactionLedger,
	analytics AnalyticsUpdater,
	configs repository.ConfigRepository,
	catalog Catalog,
	splitter *payout.Splitter,
	log *zap.Logger,
) *TipService {
	return &TipService{
		ledger:    ledger,
		analytics: analytics,
		configs:   configs,
		catalog:   catalog,
		splitter:  splitter,
		log:       log,
		now:       time.Now,
	}
}

// ListHistory returns a page of the tenant's transactions, newest first
func (s *TipService) ListHistory(ctx context.Context, req *dto.ListTipHistoryRequest) (*dto.TipHistoryResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = ledger.DefaultPageSize
	}

	page, err := s.ledger.List(ctx, req.TenantID, limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tip history: %w", err)
	}

	transactions := page.Transactions
	if transactions == nil {
		transactions = []*domain.TipTransaction{}
	}

	return &dto.TipHistoryResponse{
		Data: transactions,
		Pagination: dto.Pagination{
			Limit:   limit,
			Offset:  req.Offset,
			HasMore: page.HasMore,
		},
	}, nil
}

// RecordTransaction stores a manually reported transaction. Derived
// amounts follow the same split rules as webhook reconciliation.
func (s *TipService) RecordTransaction(ctx context.Context, req *dto.CreateTipTransactionRequest) (*dto.TipTransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	status := domain.StatusCompleted
	if req.Status != "" {
		status = domain.TransactionStatus(req.Status)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w %q", ErrValidation, domain.ErrInvalidStatus, req.Status)
	}

	gross := *req.Amount
	fee := decimal.Zero
	if req.FeeAmount != nil {
		fee = *req.FeeAmount
	}
	net := gross.Sub(fee)
	if req.NetAmount != nil {
		net = *req.NetAmount
		if req.FeeAmount == nil {
			fee = gross.Sub(net)
		}
	}

	var creator, operator decimal.Decimal
	switch {
	case req.CreatorAmount != nil && req.OperatorAmount != nil:
		creator, operator = *req.CreatorAmount, *req.OperatorAmount
	case req.CreatorAmount != nil:
		creator = *req.CreatorAmount
		operator = net.Sub(creator)
	case req.OperatorAmount != nil:
		operator = *req.OperatorAmount
		creator = net.Sub(operator)
	default:
		split := s.splitter.Split(net)
		creator, operator = split.Creator, split.Operator
	}

	if err := checkAmounts(gross, net, fee, creator, operator); err != nil {
		return nil, err
	}

	username := req.FromUsername
	if username == "" {
		username = webhook.AnonymousUsername
	}

	result, err := s.ledger.RecordIfAbsent(ctx, &domain.TipTransaction{
		PaymentID:      req.PaymentID,
		TenantID:       req.TenantID,
		FromUserID:     req.FromUserID,
		FromUsername:   username,
		GrossAmount:    gross,
		NetAmount:      net,
		CreatorAmount:  creator,
		OperatorAmount: operator,
		FeeAmount:      fee,
		Status:         status,
		ExperienceID:   req.ExperienceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	resp := &dto.TipTransactionResponse{Created: result.Created, Data: result.Record}
	if !result.Created {
		resp.Message = "Transaction already recorded"
	}
	return resp, nil
}

// checkAmounts enforces net <= gross, gross = net + fee and
// creator + operator = net, all at minor-unit precision
func checkAmounts(gross, net, fee, creator, operator decimal.Decimal) error {
	switch {
	case net.IsNegative():
		return fmt.Errorf("%w: net_amount must not be negative", ErrValidation)
	case fee.IsNegative():
		return fmt.Errorf("%w: fee_amount must not be negative", ErrValidation)
	case net.GreaterThan(gross):
		return fmt.Errorf("%w: net_amount %s exceeds amount %s", ErrValidation, net, gross)
	case !net.Add(fee).Round(minorUnitPlaces).Equal(gross.Round(minorUnitPlaces)):
		return fmt.Errorf("%w: net_amount plus fee_amount must equal amount", ErrValidation)
	case creator.IsNegative() || operator.IsNegative():
		return fmt.Errorf("%w: creator_amount and operator_amount must not be negative", ErrValidation)
	case !creator.Add(operator).Round(minorUnitPlaces).Equal(net.Round(minorUnitPlaces)):
		return fmt.Errorf("%w: creator_amount plus operator_amount must equal net_amount", ErrValidation)
	}
	return nil
}

// UpdateStatus corrects the status of a recorded transaction
func (s *TipService) UpdateStatus(ctx context.Context, req *dto.UpdateTipStatusRequest) (*domain.TipTransaction, error) {
	status := domain.TransactionStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w %q", ErrValidation, domain.ErrInvalidStatus, req.Status)
	}

	tx, err := s.ledger.UpdateStatus(ctx, req.PaymentID, status)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetAnalytics returns the tenant aggregate
func (s *TipService) GetAnalytics(ctx context.Context, tenantID string) (*domain.TipAnalytics, error) {
	return s.analytics.Get(ctx, tenantID)
}

// FoldAnalytics adds a manually reported tip to the tenant aggregate
func (s *TipService) FoldAnalytics(ctx context.Context, req *dto.FoldAnalyticsRequest) (*domain.TipAnalytics, error) {
	if !req.TipAmount.IsPositive() {
		return nil, fmt.Errorf("%w: tip_amount must be positive", ErrValidation)
	}

	split := s.splitter.Split(*req.TipAmount)
	creator, operator := split.Creator, split.Operator
	if req.CreatorAmount != nil {
		creator = *req.CreatorAmount
	}
	if req.OperatorAmount != nil {
		operator = *req.OperatorAmount
	}

	return s.analytics.FoldTransaction(ctx, req.TenantID, *req.TipAmount, creator, operator)
}

// RebuildAnalytics recomputes one tenant, or every tenant when tenantID is empty.
// A full rebuild that partially succeeds reports the failures instead of
// returning them.
func (s *TipService) RebuildAnalytics(ctx context.Context, tenantID string) (*dto.RebuildAnalyticsResponse, error) {
	if tenantID != "" {
		if _, err := s.analytics.Rebuild(ctx, tenantID); err != nil {
			return nil, err
		}
		return &dto.RebuildAnalyticsResponse{Rebuilt: 1}, nil
	}

	rebuilt, err := s.analytics.RebuildAll(ctx)
	resp := &dto.RebuildAnalyticsResponse{Rebuilt: rebuilt}
	if err != nil {
		if rebuilt == 0 {
			return nil, err
		}
		resp.Errors = flatten(err)
	}
	return resp, nil
}

// GetConfig returns the tenant configuration, or the defaults if none was saved
func (s *TipService) GetConfig(ctx context.Context, tenantID, experienceID string) (*domain.TipConfig, error) {
	cfg, err := s.configs.Get(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultTipConfig(tenantID, experienceID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tip config: %w", err)
	}
	return cfg, nil
}

// SaveConfig upserts the tenant configuration. A platform plan is created
// for each amount that has none yet; a failed plan creation is logged and
// the amount is saved without a plan.
func (s *TipService) SaveConfig(ctx context.Context, req *dto.SaveTipConfigRequest) (*domain.TipConfig, error) {
	planIDs := map[string]string{}
	existing, err := s.configs.Get(ctx, req.TenantID)
	switch {
	case err == nil:
		for amount, planID := range existing.PlanIDs {
			planIDs[amount] = planID
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to load tip config: %w", err)
	}

	for _, amount := range req.TipAmounts {
		key := strconv.FormatInt(amount, 10)
		if planIDs[key] != "" {
			continue
		}

		planID, err := s.catalog.CreateTipPlan(ctx, req.TenantID, amount)
		if err != nil {
			s.log.Error("Failed to create tip plan, continuing",
				zap.Error(err),
				zap.String("tenant_id", req.TenantID),
				zap.Int64("amount", amount))
			continue
		}
		planIDs[key] = planID
	}

	welcome := req.WelcomeMessage
	if welcome == "" {
		welcome = domain.DefaultWelcomeMessage
	}

	now := s.now().UTC()
	saved, err := s.configs.Upsert(ctx, &domain.TipConfig{
		TenantID:       req.TenantID,
		ExperienceID:   req.ExperienceID,
		TipAmounts:     req.TipAmounts,
		WelcomeMessage: welcome,
		PlanIDs:        planIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save tip config: %w", err)
	}

	s.log.Info("Tip config saved",
		zap.String("tenant_id", saved.TenantID),
		zap.Int("amount_count", len(saved.TipAmounts)),
		zap.Int("plan_count", len(saved.PlanIDs)))

	return saved, nil
}

// CreateCheckout prepares a checkout for a fixed tip. The tip amount is
// stored in the checkout metadata, where reconciliation reads it back as
// the authoritative gross amount.
func (s *TipService) CreateCheckout(ctx context.Context, req *dto.CreateCheckoutRequest) (*platform.CheckoutConfiguration, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	metadata := make(map[string]string, len(req.Metadata)+3)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["tip_amount"] = req.Amount.String()
	metadata["tip_jar_app"] = checkoutAppTag
	metadata["created_at"] = s.now().UTC().Format(time.RFC3339)

	checkout, err := s.catalog.CreateCheckoutConfiguration(ctx, req.TenantID, *req.Amount, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}
	return checkout, nil
}

func flatten(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
