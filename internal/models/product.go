package models

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ProductID   string          `db:"product_id"`
	Barcode     string          `db:"barcode"` // Unique, digits only
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	SalePrice   decimal.Decimal `db:"sale_price"`
	Cost        decimal.Decimal `db:"cost"`
	Taxed       bool            `db:"taxed"`
	IsActive    bool            `db:"is_active"`
	Version     int64           `db:"version"`
	AuditFields
}
