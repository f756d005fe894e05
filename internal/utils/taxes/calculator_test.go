package taxes_test

import (
	"testing"

	"github.com/SscSPs/pos_core/internal/utils/taxes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		rate     string
		want     string
	}{
		{"standard rate", "20.00", "0.16", "3.20"},
		{"rounds half away from zero", "-0.05", "0.5", "-0.03"},
		{"rounds up at half cent", "10.03", "0.5", "5.02"},
		{"zero rate", "99.99", "0", "0"},
		{"zero subtotal", "0", "0.16", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taxes.CalculateTax(d(tt.subtotal), d(tt.rate))
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestSplitTax_RoundTrip(t *testing.T) {
	rate := taxes.StandardRate
	for _, s := range []string{"0.01", "1.00", "20.00", "33.33", "199.99", "1234.56"} {
		subtotal := d(s)
		total := taxes.TotalWithTax(subtotal, rate)
		gotSubtotal, gotTax := taxes.SplitTax(total, rate)

		assert.True(t, gotSubtotal.Add(gotTax).Equal(total), "parts must add back to total for %s", s)
		assert.True(t, gotSubtotal.Sub(subtotal).Abs().LessThanOrEqual(d("0.01")), "subtotal drift for %s: %s", s, gotSubtotal)
		assert.True(t, gotTax.Sub(taxes.CalculateTax(subtotal, rate)).Abs().LessThanOrEqual(d("0.01")), "tax drift for %s", s)
	}
}

func TestTaxForItems(t *testing.T) {
	got := taxes.TaxForItems([]taxes.TaxableAmount{
		{Subtotal: d("20.00"), Rate: d("0.16"), Taxed: true},
		{Subtotal: d("50.00"), Rate: d("0.16"), Taxed: false},
		{Subtotal: d("10.00"), Rate: d("0.16"), Taxed: true},
	})
	assert.True(t, d("4.80").Equal(got))
}

func TestRoundToCash(t *testing.T) {
	assert.True(t, d("23.20").Equal(taxes.RoundToCash(d("23.21"))))
	assert.True(t, d("23.25").Equal(taxes.RoundToCash(d("23.23"))))
	assert.True(t, d("23.25").Equal(taxes.RoundToCash(d("23.25"))))
}

func TestRateForCategory(t *testing.T) {
	assert.True(t, taxes.RateForCategory("medicinas", true, taxes.StandardRate).IsZero())
	assert.True(t, taxes.RateForCategory("BEBIDAS", false, taxes.StandardRate).IsZero())
	assert.True(t, taxes.StandardRate.Equal(taxes.RateForCategory("BEBIDAS", true, taxes.StandardRate)))
	assert.Error(t, taxes.ValidateRate(d("1.5")))
	assert.Error(t, taxes.ValidateRate(d("-0.1")))
	assert.NoError(t, taxes.ValidateRate(d("0")))
}
