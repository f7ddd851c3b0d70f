package payout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// minorUnitPlaces is the precision of the settlement currency
const minorUnitPlaces int32 = 2

// DefaultCreatorShare is the fraction of net proceeds paid to the creator
var DefaultCreatorShare = decimal.RequireFromString("0.80")

// RemainderRule names the party that absorbs the sub-cent remainder
type RemainderRule string

const (
	RemainderToOperator RemainderRule = "operator"
	RemainderToCreator  RemainderRule = "creator"
)

// ParseRemainderRule parses the configured rule name
func ParseRemainderRule(s string) (RemainderRule, error) {
	switch RemainderRule(strings.ToLower(strings.TrimSpace(s))) {
	case RemainderToOperator, "":
		return RemainderToOperator, nil
	case RemainderToCreator:
		return RemainderToCreator, nil
	}
	return "", fmt.Errorf("unknown remainder rule: %q (supported: operator, creator)", s)
}

// Split is the division of a net amount between creator and operator
type Split struct {
	Creator  decimal.Decimal
	Operator decimal.Decimal
}

// Splitter divides net amounts under a fixed percentage policy
type Splitter struct {
	creatorShare decimal.Decimal
	rule         RemainderRule
	log          *zap.Logger
}

// NewSplitter creates a splitter; creatorShare must be within (0, 1]
func NewSplitter(creatorShare decimal.Decimal, rule RemainderRule, log *zap.Logger) (*Splitter, error) {
	if !creatorShare.IsPositive() || creatorShare.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("creator share must be within (0, 1], got %s", creatorShare)
	}
	if rule != RemainderToOperator && rule != RemainderToCreator {
		return nil, fmt.Errorf("unknown remainder rule: %q", rule)
	}
	return &Splitter{creatorShare: creatorShare, rule: rule, log: log}, nil
}

// CreatorShare returns the configured creator fraction
func (s *Splitter) CreatorShare() decimal.Decimal {
	return s.creatorShare
}

// Split computes creator and operator shares at minor-unit precision.
// The shares always sum to the (rounded) net amount.
func (s *Splitter) Split(net decimal.Decimal) Split {
	if !net.IsPositive() {
		s.log.Warn("Non-positive net amount, splitting to zero",
			zap.String("net_amount", net.String()))
		return Split{Creator: decimal.Zero, Operator: decimal.Zero}
	}

	net = net.Round(minorUnitPlaces)
	creatorExact := net.Mul(s.creatorShare)

	if s.rule == RemainderToCreator {
		operator := net.Sub(creatorExact).RoundDown(minorUnitPlaces)
		return Split{Creator: net.Sub(operator), Operator: operator}
	}

	creator := creatorExact.RoundDown(minorUnitPlaces)
	return Split{Creator: creator, Operator: net.Sub(creator)}
}
