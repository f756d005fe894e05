package domain

import (
	"strings"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxProductNameLength = 200

// Product is a sellable catalogue item.
type Product struct {
	ProductID   string          `json:"productID"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	Cost        decimal.Decimal `json:"cost"`
	Taxed       bool            `json:"taxed"`
	IsActive    bool            `json:"isActive"`
	Version     int64           `json:"version"`
	AuditFields
}

// NewProductParams groups the inputs of NewProduct.
type NewProductParams struct {
	Barcode     string
	Name        string
	Description string
	Category    string
	SalePrice   decimal.Decimal
	Cost        decimal.Decimal
	Taxed       bool
	CreatedBy   string
}

// NewProduct validates and creates an active product.
func NewProduct(p NewProductParams) (*Product, error) {
	barcode, err := NormalizeBarcode(p.Barcode)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "product name is required")
	}
	if len(name) > maxProductNameLength {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "product name cannot exceed %d characters", maxProductNameLength)
	}
	if err := validatePrices(p.SalePrice, p.Cost); err != nil {
		return nil, err
	}
	at := now()
	return &Product{
		ProductID:   uuid.NewString(),
		Barcode:     barcode,
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Category:    strings.ToUpper(strings.TrimSpace(p.Category)),
		SalePrice:   p.SalePrice,
		Cost:        p.Cost,
		Taxed:       p.Taxed,
		IsActive:    true,
		AuditFields: AuditFields{CreatedAt: at, CreatedBy: p.CreatedBy, LastUpdatedAt: at, LastUpdatedBy: p.CreatedBy},
	}, nil
}

func validatePrices(price, cost decimal.Decimal) error {
	if !price.IsPositive() {
		return apperrors.New(apperrors.CodeInvalidAmount, "sale price must be greater than zero")
	}
	if cost.IsNegative() {
		return apperrors.New(apperrors.CodeInvalidAmount, "cost cannot be negative")
	}
	if cost.GreaterThan(price) {
		return apperrors.New(apperrors.CodeInvalidAmount, "cost cannot exceed sale price")
	}
	return nil
}

// UpdatePrices changes price and cost together.
func (p *Product) UpdatePrices(price, cost decimal.Decimal, userID string) error {
	if err := validatePrices(price, cost); err != nil {
		return err
	}
	p.SalePrice = price
	p.Cost = cost
	p.touch(userID, now())
	return nil
}

// Rename changes the display name.
func (p *Product) Rename(name, userID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "product name is required")
	}
	if len(name) > maxProductNameLength {
		return apperrors.Newf(apperrors.CodeInvalidArgument, "product name cannot exceed %d characters", maxProductNameLength)
	}
	p.Name = name
	p.touch(userID, now())
	return nil
}

// Deactivate removes the product from sale.
func (p *Product) Deactivate(userID string) error {
	if !p.IsActive {
		return apperrors.New(apperrors.CodeProductInactive, "product is already inactive")
	}
	p.IsActive = false
	p.touch(userID, now())
	return nil
}

// Activate puts the product back on sale.
func (p *Product) Activate(userID string) {
	p.IsActive = true
	p.touch(userID, now())
}

// Margin returns price minus cost.
func (p *Product) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.Cost)
}

// Clone returns an independent copy.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// Checkpoint snapshots the product and returns a function restoring it.
func (p *Product) Checkpoint() func() {
	saved := *p
	return func() { *p = saved }
}

