package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a row of the sales table. Items and payments live in their own
// tables and are loaded separately.
type Sale struct {
	SaleID       string          `db:"sale_id"`
	Folio        string          `db:"folio"` // Unique, YYYYMMDD-NNNN
	UserID       string          `db:"user_id"`
	Status       string          `db:"status"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	Tax          decimal.Decimal `db:"tax"`
	Total        decimal.Decimal `db:"total"`
	AmountPaid   decimal.Decimal `db:"amount_paid"`
	Change       decimal.Decimal `db:"change_due"`
	ItemCount    int             `db:"item_count"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
	PaidAt       *time.Time      `db:"paid_at"`      // Nullable
	FinalizedAt  *time.Time      `db:"finalized_at"` // Nullable
	CancelledAt  *time.Time      `db:"cancelled_at"` // Nullable
	CancelReason string          `db:"cancel_reason"`
	CancelledBy  string          `db:"cancelled_by"`
	Reversed     bool            `db:"reversed"`
	Version      int64           `db:"version"`
}

// SaleItem is a line of a sale.
type SaleItem struct {
	LineItemID  string          `db:"line_item_id"`
	SaleID      string          `db:"sale_id"` // FK -> sales
	Position    int             `db:"position"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Barcode     string          `db:"barcode"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Taxed       bool            `db:"taxed"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	Quantity    int             `db:"quantity"`
}

// SalePayment is a payment registered against a sale.
type SalePayment struct {
	PaymentID string          `db:"payment_id"`
	SaleID    string          `db:"sale_id"` // FK -> sales
	Position  int             `db:"position"`
	Amount    decimal.Decimal `db:"amount"`
	Method    string          `db:"method"`
	Reference string          `db:"reference"`
	Change    decimal.Decimal `db:"change_due"`
	PaidAt    time.Time       `db:"paid_at"`
}
