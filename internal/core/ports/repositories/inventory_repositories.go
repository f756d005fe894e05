package repositories

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// InventoryReader defines read operations for stock data
type InventoryReader interface {
	// FindInventoryByProductID retrieves the stock of a product without locking it.
	FindInventoryByProductID(ctx context.Context, productID string) (*domain.Inventory, error)

	// ListLowStock returns inventories at or below their minimum threshold.
	ListLowStock(ctx context.Context, limit int) ([]*domain.Inventory, error)
}

// InventoryTransactionSupport defines operations that need the enclosing transaction
type InventoryTransactionSupport interface {
	// FindInventoryByProductIDForUpdate loads the stock of a product and locks
	// the row until the transaction ends.
	FindInventoryByProductIDForUpdate(ctx context.Context, productID string) (*domain.Inventory, error)
}

// InventoryWriter defines write operations for stock data
type InventoryWriter interface {
	// SaveInventory persists a new inventory row.
	SaveInventory(ctx context.Context, inventory *domain.Inventory) error

	// UpdateInventory stores changes, checking the inventory version.
	UpdateInventory(ctx context.Context, inventory *domain.Inventory) error
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryTransactionSupport
	InventoryWriter
}
