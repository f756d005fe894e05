package taxes

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StandardRate is the general VAT rate.
var StandardRate = decimal.RequireFromString("0.16")

// CashRoundingStep is the smallest coin used when rounding cash totals.
var CashRoundingStep = decimal.RequireFromString("0.05")

// exemptCategories are product categories taxed at a zero rate.
var exemptCategories = map[string]struct{}{
	"ALIMENTOS_BASICOS": {},
	"MEDICINAS":         {},
	"LIBROS":            {},
	"PERIODICOS":        {},
}

// TaxableAmount is one amount subject to a given rate.
type TaxableAmount struct {
	Subtotal decimal.Decimal
	Rate     decimal.Decimal
	Taxed    bool
}

// ValidateRate checks that rate is within [0, 1].
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be between 0 and 1, got %s", rate.String())
	}
	return nil
}

// CalculateTax returns subtotal*rate rounded to cents (half away from zero).
func CalculateTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || rate.IsZero() {
		return decimal.Zero
	}
	return subtotal.Mul(rate).Round(2)
}

// TotalWithTax returns subtotal plus its tax.
func TotalWithTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Add(CalculateTax(subtotal, rate))
}

// SplitTax breaks a tax-inclusive total into its subtotal and tax components.
// The two parts always add back up to total exactly.
func SplitTax(total, rate decimal.Decimal) (subtotal, tax decimal.Decimal) {
	if rate.IsZero() {
		return total, decimal.Zero
	}
	subtotal = total.DivRound(decimal.NewFromInt(1).Add(rate), 8).Round(2)
	tax = total.Sub(subtotal)
	return subtotal, tax
}

// TaxForItems sums the per-item tax of every taxed amount.
func TaxForItems(items []TaxableAmount) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !item.Taxed {
			continue
		}
		total = total.Add(CalculateTax(item.Subtotal, item.Rate))
	}
	return total
}

// RoundToStep rounds amount to the nearest multiple of step.
func RoundToStep(amount, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return amount
	}
	return amount.DivRound(step, 8).Round(0).Mul(step)
}

// RoundToCash rounds amount to the nearest coin.
func RoundToCash(amount decimal.Decimal) decimal.Decimal {
	return RoundToStep(amount, CashRoundingStep)
}

// IsExemptCategory reports whether products of category carry a zero rate.
func IsExemptCategory(category string) bool {
	_, ok := exemptCategories[strings.ToUpper(strings.TrimSpace(category))]
	return ok
}

// RateForCategory returns the rate applicable to a product.
func RateForCategory(category string, taxed bool, rate decimal.Decimal) decimal.Decimal {
	if !taxed || IsExemptCategory(category) {
		return decimal.Zero
	}
	return rate
}
