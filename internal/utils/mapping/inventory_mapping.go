package mapping

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/models"
)

func ToModelInventory(d *domain.Inventory) models.Inventory {
	s := d.Snapshot()
	return models.Inventory{
		InventoryID: s.InventoryID,
		ProductID:   s.ProductID,
		Physical:    s.Physical,
		Reserved:    s.Reserved,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		LastUpdated: s.LastUpdated,
		Version:     s.Version,
	}
}

func ToDomainInventory(m models.Inventory) *domain.Inventory {
	return domain.RestoreInventory(domain.InventorySnapshot{
		InventoryID: m.InventoryID,
		ProductID:   m.ProductID,
		Physical:    m.Physical,
		Reserved:    m.Reserved,
		Minimum:     m.Minimum,
		Maximum:     m.Maximum,
		LastUpdated: m.LastUpdated,
		Version:     m.Version,
	})
}

func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:  d.MovementID,
		ProductID:   d.ProductID,
		Kind:        string(d.Kind),
		Quantity:    d.Quantity,
		StockBefore: d.StockBefore,
		StockAfter:  d.StockAfter,
		Concept:     d.Concept,
		UserID:      d.UserID,
		SaleID:      d.SaleID,
		Reference:   d.Reference,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:  m.MovementID,
		ProductID:   m.ProductID,
		Kind:        domain.StockMovementKind(m.Kind),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Concept:     m.Concept,
		UserID:      m.UserID,
		SaleID:      m.SaleID,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}
