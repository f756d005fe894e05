package dto

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
)

// ReceiveStockRequest records delivered units.
type ReceiveStockRequest struct {
	Quantity  int    `json:"quantity" binding:"required,min=1,max=9999"`
	Concept   string `json:"concept" binding:"required,max=500"`
	Reference string `json:"reference" binding:"max=100"`
}

// AdjustStockRequest sets physical stock to a counted value.
type AdjustStockRequest struct {
	NewValue *int   `json:"newValue" binding:"required,min=0"`
	Reason   string `json:"reason" binding:"required,max=500"`
}

// ShrinkageRequest removes damaged or lost units.
type ShrinkageRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1,max=9999"`
	Reason   string `json:"reason" binding:"required,max=500"`
}

// UpdateLimitsRequest changes restock thresholds.
type UpdateLimitsRequest struct {
	Minimum int `json:"minimum" binding:"min=0"`
	Maximum int `json:"maximum" binding:"required,gtfield=Minimum"`
}

// ListStockMovementsResponse is a page of stock movements.
type ListStockMovementsResponse struct {
	Movements []domain.StockMovement `json:"movements"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// InventoryResponse defines the data returned for the stock of a product.
type InventoryResponse struct {
	domain.InventorySnapshot
	NeedsRestock    bool `json:"needsRestock"`
	RestockQuantity int  `json:"restockQuantity"`
	Critical        bool `json:"critical"`
}

// ToInventoryResponse converts a domain.Inventory to InventoryResponse DTO.
func ToInventoryResponse(inv *domain.Inventory) InventoryResponse {
	return InventoryResponse{
		InventorySnapshot: inv.Snapshot(),
		NeedsRestock:      domain.NeedsRestock(inv),
		RestockQuantity:   domain.RestockQuantity(inv),
		Critical:          domain.CriticalStock(inv),
	}
}

// ToInventoryResponses converts a slice of inventories.
func ToInventoryResponses(inventories []*domain.Inventory) []InventoryResponse {
	responses := make([]InventoryResponse, len(inventories))
	for i, inv := range inventories {
		responses[i] = ToInventoryResponse(inv)
	}
	return responses
}
