package payout

import "github.com/shopspring/decimal"

// MinorUnitThreshold is the raw value from which amounts are read as cents.
// Upstream payloads are not unit-tagged, so this is a heuristic.
var MinorUnitThreshold = decimal.NewFromInt(100)

var hundred = decimal.NewFromInt(100)

// Normalize converts a raw upstream amount into major units
func Normalize(raw decimal.Decimal) decimal.Decimal {
	if raw.GreaterThanOrEqual(MinorUnitThreshold) {
		return raw.Div(hundred)
	}
	return raw
}

// RawAmounts are the amount fields as found in the payload; nil means absent
type RawAmounts struct {
	Gross     *decimal.Decimal
	AfterFees *decimal.Decimal
	Fee       *decimal.Decimal
}

// Amounts are normalized major-unit amounts
type Amounts struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
	Fee   decimal.Decimal
}

// NormalizeAmounts normalizes each raw field independently.
// A missing after-fee amount means no fee was taken; a missing fee is
// derived as gross minus after-fee.
func NormalizeAmounts(raw RawAmounts) Amounts {
	gross := decimal.Zero
	if present(raw.Gross) {
		gross = Normalize(*raw.Gross)
	}

	net := gross
	if present(raw.AfterFees) {
		net = Normalize(*raw.AfterFees)
	}

	fee := gross.Sub(net)
	if present(raw.Fee) {
		fee = Normalize(*raw.Fee)
	}

	return Amounts{Gross: gross, Net: net, Fee: fee}
}

// WithOverride treats tip as the authoritative gross amount and recomputes
// net from the fee already derived. Net never goes below zero.
func (a Amounts) WithOverride(tip decimal.Decimal) Amounts {
	net := tip.Sub(a.Fee)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return Amounts{Gross: tip, Net: net, Fee: a.Fee}
}

func present(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}
