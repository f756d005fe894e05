package mapping

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/models"
)

// ToModelSale splits a sale into its header row and child rows.
func ToModelSale(d *domain.Sale) (models.Sale, []models.SaleItem, []models.SalePayment) {
	s := d.Snapshot()
	header := models.Sale{
		SaleID:       s.SaleID,
		Folio:        s.Folio,
		UserID:       s.UserID,
		Status:       string(s.Status),
		TaxRate:      s.TaxRate,
		Subtotal:     s.Subtotal,
		Tax:          s.Tax,
		Total:        s.Total,
		AmountPaid:   s.AmountPaid,
		Change:       s.Change,
		ItemCount:    s.ItemCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		PaidAt:       s.PaidAt,
		FinalizedAt:  s.FinalizedAt,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
		CancelledBy:  s.CancelledBy,
		Reversed:     s.Reversed,
		Version:      s.Version,
	}

	items := make([]models.SaleItem, len(s.Items))
	for i, it := range s.Items {
		items[i] = models.SaleItem{
			LineItemID:  it.LineItemID,
			SaleID:      s.SaleID,
			Position:    i,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Barcode:     it.Barcode,
			UnitPrice:   it.UnitPrice,
			Taxed:       it.Taxed,
			TaxRate:     it.TaxRate,
			Quantity:    it.Quantity,
		}
	}

	payments := make([]models.SalePayment, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = models.SalePayment{
			PaymentID: p.PaymentID,
			SaleID:    s.SaleID,
			Position:  i,
			Amount:    p.Amount,
			Method:    string(p.Method),
			Reference: p.Reference,
			Change:    p.Change,
			PaidAt:    p.PaidAt,
		}
	}
	return header, items, payments
}

// ToDomainSale rebuilds a sale from its header and ordered child rows.
func ToDomainSale(m models.Sale, items []models.SaleItem, payments []models.SalePayment) (*domain.Sale, error) {
	snapshot := domain.SaleSnapshot{
		SaleID:       m.SaleID,
		Folio:        m.Folio,
		UserID:       m.UserID,
		Status:       domain.SaleStatus(m.Status),
		TaxRate:      m.TaxRate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		PaidAt:       m.PaidAt,
		FinalizedAt:  m.FinalizedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		CancelledBy:  m.CancelledBy,
		Reversed:     m.Reversed,
		Version:      m.Version,
	}
	for _, it := range items {
		snapshot.Items = append(snapshot.Items, domain.LineItem{
			LineItemID:  it.LineItemID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Barcode:     it.Barcode,
			UnitPrice:   it.UnitPrice,
			Taxed:       it.Taxed,
			TaxRate:     it.TaxRate,
			Quantity:    it.Quantity,
		})
	}
	for _, p := range payments {
		snapshot.Payments = append(snapshot.Payments, domain.Payment{
			PaymentID: p.PaymentID,
			Amount:    p.Amount,
			Method:    domain.PaymentMethod(p.Method),
			Reference: p.Reference,
			Change:    p.Change,
			PaidAt:    p.PaidAt,
		})
	}
	return domain.RestoreSale(snapshot)
}
