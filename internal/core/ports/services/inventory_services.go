package services

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/dto"
)

// InventoryReaderSvc defines read operations for stock
type InventoryReaderSvc interface {
	// GetStock returns the stock of a product.
	GetStock(ctx context.Context, productID string) (*domain.Inventory, error)

	// ListLowStock returns products at or below their minimum.
	ListLowStock(ctx context.Context, limit int) ([]*domain.Inventory, error)

	// ListMovements retrieves a page of the stock movements of a product.
	ListMovements(ctx context.Context, productID string, params dto.ListParams) (*dto.ListStockMovementsResponse, error)
}

// InventoryWriterSvc defines stock changes made outside of sales
type InventoryWriterSvc interface {
	// ReceiveStock adds delivered units.
	ReceiveStock(ctx context.Context, productID string, req dto.ReceiveStockRequest, userID string) (*domain.Inventory, error)

	// AdjustStock sets physical stock to a counted value.
	AdjustStock(ctx context.Context, productID string, newValue int, reason, userID string) (*domain.Inventory, error)

	// RegisterShrinkage removes damaged or lost units.
	RegisterShrinkage(ctx context.Context, productID string, qty int, reason, userID string) (*domain.Inventory, error)

	// UpdateLimits changes the restock thresholds.
	UpdateLimits(ctx context.Context, productID string, minimum, maximum int) (*domain.Inventory, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
