package payout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestNormalize_Boundaries(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"100", "1.00"},
		{"101", "1.01"},
		{"50", "50"},
		{"99.99", "99.99"},
		{"2500", "25"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assertDecimal(t, tt.expected, Normalize(dec(tt.raw)))
		})
	}
}

func TestNormalizeAmounts_AllFieldsPresent(t *testing.T) {
	amounts := NormalizeAmounts(RawAmounts{
		Gross:     decPtr("2500"),
		AfterFees: decPtr("2400"),
		Fee:       decPtr("100"),
	})

	assertDecimal(t, "25.00", amounts.Gross)
	assertDecimal(t, "24.00", amounts.Net)
	assertDecimal(t, "1.00", amounts.Fee)
}

func TestNormalizeAmounts_MissingAfterFeesDefaultsToGross(t *testing.T) {
	amounts := NormalizeAmounts(RawAmounts{Gross: decPtr("1000")})

	assertDecimal(t, "10", amounts.Gross)
	assertDecimal(t, "10", amounts.Net)
	assertDecimal(t, "0", amounts.Fee)
}

func TestNormalizeAmounts_MissingFeeIsDerived(t *testing.T) {
	amounts := NormalizeAmounts(RawAmounts{
		Gross:     decPtr("2000"),
		AfterFees: decPtr("1800"),
	})

	assertDecimal(t, "2", amounts.Fee)
}

func TestNormalizeAmounts_NothingPresent(t *testing.T) {
	amounts := NormalizeAmounts(RawAmounts{})

	assert.True(t, amounts.Gross.IsZero())
	assert.True(t, amounts.Net.IsZero())
	assert.True(t, amounts.Fee.IsZero())
}

func TestAmounts_WithOverride(t *testing.T) {
	amounts := NormalizeAmounts(RawAmounts{
		Gross:     decPtr("2500"),
		AfterFees: decPtr("2400"),
		Fee:       decPtr("100"),
	}).WithOverride(dec("5"))

	assertDecimal(t, "5", amounts.Gross)
	assertDecimal(t, "4", amounts.Net)
	assertDecimal(t, "1", amounts.Fee)
}

func TestAmounts_WithOverride_FeeLargerThanTip(t *testing.T) {
	amounts := Amounts{Gross: dec("10"), Net: dec("7"), Fee: dec("3")}.WithOverride(dec("1"))

	assertDecimal(t, "1", amounts.Gross)
	assert.True(t, amounts.Net.IsZero())
}
