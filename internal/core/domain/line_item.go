package domain

import (
	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/utils/taxes"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product line of a sale. Product data is a snapshot taken
// when the product was first added; only Quantity changes afterwards, and only
// through the owning Sale.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Barcode     string          `json:"barcode"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Taxed       bool            `json:"taxed"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Quantity    int             `json:"quantity"`
}

func newLineItem(product *Product, qty int, saleRate decimal.Decimal) (LineItem, error) {
	if err := ValidateQuantity(qty); err != nil {
		return LineItem{}, err
	}
	return LineItem{
		LineItemID:  uuid.NewString(),
		ProductID:   product.ProductID,
		ProductName: product.Name,
		Barcode:     product.Barcode,
		UnitPrice:   product.SalePrice,
		Taxed:       product.Taxed && !taxes.IsExemptCategory(product.Category),
		TaxRate:     taxes.RateForCategory(product.Category, product.Taxed, saleRate),
		Quantity:    qty,
	}, nil
}

// Subtotal is quantity times unit price, before tax.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Tax is the line tax rounded to cents; zero for untaxed lines.
func (l LineItem) Tax() decimal.Decimal {
	if !l.Taxed {
		return decimal.Zero
	}
	return taxes.CalculateTax(l.Subtotal(), l.TaxRate)
}

// Total is subtotal plus tax.
func (l LineItem) Total() decimal.Decimal {
	return l.Subtotal().Add(l.Tax())
}

func (l *LineItem) increment(qty int) error {
	if qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "additional quantity must be greater than zero")
	}
	return l.setQuantity(l.Quantity + qty)
}

func (l *LineItem) decrement(qty int) error {
	if qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "quantity to remove must be greater than zero")
	}
	if l.Quantity-qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "quantity cannot reach zero, remove the item instead")
	}
	l.Quantity -= qty
	return nil
}

func (l *LineItem) setQuantity(qty int) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	l.Quantity = qty
	return nil
}
