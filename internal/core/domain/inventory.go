package domain

import (
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
)

const (
	DefaultMinimumStock = 10
	DefaultMaximumStock = 1000
)

// Inventory tracks the stock of one product. Physical and reserved quantities
// are only changed through its methods, each of which re-checks the invariants.
//
// Callers must hold the row lock obtained from FindInventoryByProductIDForUpdate
// before reading Available and mutating.
type Inventory struct {
	InventoryID string
	ProductID   string
	Version     int64

	physical    int
	reserved    int
	minimum     int
	maximum     int
	lastUpdated time.Time
}

// InventorySnapshot is the flat, exported form of an Inventory used by
// persistence and transport layers.
type InventorySnapshot struct {
	InventoryID string    `json:"inventoryID"`
	ProductID   string    `json:"productID"`
	Physical    int       `json:"physical"`
	Reserved    int       `json:"reserved"`
	Available   int       `json:"available"`
	Minimum     int       `json:"minimum"`
	Maximum     int       `json:"maximum"`
	LowStock    bool      `json:"lowStock"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     int64     `json:"version"`
}

// NewInventory creates the stock record of a product.
func NewInventory(productID string, initial, minimum, maximum int) (*Inventory, error) {
	if productID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "product id is required")
	}
	if initial < 0 {
		return nil, apperrors.New(apperrors.CodeInvalidQuantity, "initial stock cannot be negative")
	}
	if err := validateLimits(minimum, maximum); err != nil {
		return nil, err
	}
	if initial > maximum {
		return nil, apperrors.Newf(apperrors.CodeInvalidQuantity, "initial stock %d exceeds maximum %d", initial, maximum)
	}
	inv := &Inventory{
		InventoryID: uuid.NewString(),
		ProductID:   productID,
		physical:    initial,
		minimum:     minimum,
		maximum:     maximum,
		lastUpdated: now(),
	}
	inv.checkInvariants()
	return inv, nil
}

// RestoreInventory rebuilds an Inventory from persisted state.
func RestoreInventory(s InventorySnapshot) *Inventory {
	return &Inventory{
		InventoryID: s.InventoryID,
		ProductID:   s.ProductID,
		Version:     s.Version,
		physical:    s.Physical,
		reserved:    s.Reserved,
		minimum:     s.Minimum,
		maximum:     s.Maximum,
		lastUpdated: s.LastUpdated,
	}
}

// Snapshot returns the exported view of the inventory.
func (i *Inventory) Snapshot() InventorySnapshot {
	return InventorySnapshot{
		InventoryID: i.InventoryID,
		ProductID:   i.ProductID,
		Physical:    i.physical,
		Reserved:    i.reserved,
		Available:   i.Available(),
		Minimum:     i.minimum,
		Maximum:     i.maximum,
		LowStock:    i.IsLowStock(),
		LastUpdated: i.lastUpdated,
		Version:     i.Version,
	}
}

func (i *Inventory) Physical() int          { return i.physical }
func (i *Inventory) Reserved() int          { return i.reserved }
func (i *Inventory) Minimum() int           { return i.minimum }
func (i *Inventory) Maximum() int           { return i.maximum }
func (i *Inventory) LastUpdated() time.Time { return i.lastUpdated }

// Available is physical stock not held by any reservation.
func (i *Inventory) Available() int { return i.physical - i.reserved }

// IsLowStock reports whether physical stock reached the minimum threshold.
func (i *Inventory) IsLowStock() bool { return i.physical <= i.minimum }

// Reserve holds qty units for an in-progress sale.
func (i *Inventory) Reserve(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	if i.Available() < qty {
		return apperrors.Newf(apperrors.CodeInsufficientStock, "insufficient stock: available %d, requested %d", i.Available(), qty)
	}
	i.reserved += qty
	i.changed()
	return nil
}

// Release gives back qty reserved units. The reserved quantity never drops below zero.
func (i *Inventory) Release(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	i.reserved -= qty
	if i.reserved < 0 {
		i.reserved = 0
	}
	i.changed()
	return nil
}

// Confirm turns qty reserved units into a sale, removing them from physical stock.
func (i *Inventory) Confirm(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	if qty > i.reserved {
		return apperrors.Newf(apperrors.CodeInvalidQuantity, "cannot confirm %d units, only %d reserved", qty, i.reserved)
	}
	if qty > i.physical {
		return apperrors.Newf(apperrors.CodeInsufficientStock, "cannot confirm %d units, only %d in stock", qty, i.physical)
	}
	i.physical -= qty
	i.reserved -= qty
	i.changed()
	return nil
}

// IncrementStock adds received or returned units.
func (i *Inventory) IncrementStock(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	if i.physical+qty > i.maximum {
		return apperrors.Newf(apperrors.CodeInvalidQuantity, "stock would exceed maximum of %d", i.maximum)
	}
	i.physical += qty
	i.changed()
	return nil
}

// ReturnStock puts back units of a reversed sale. The maximum is not enforced
// since the units were already counted against it when they were received.
func (i *Inventory) ReturnStock(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	i.physical += qty
	i.changed()
	return nil
}

// DecrementStock removes units outside of a sale (shrinkage, transfers).
func (i *Inventory) DecrementStock(qty int) error {
	if err := validatePositiveQuantity(qty); err != nil {
		return err
	}
	if i.physical-qty < i.reserved {
		return apperrors.Newf(apperrors.CodeInsufficientStock, "cannot remove %d units: %d in stock, %d reserved", qty, i.physical, i.reserved)
	}
	i.physical -= qty
	i.changed()
	return nil
}

// AdjustStock sets physical stock to the counted value.
func (i *Inventory) AdjustStock(newValue int, reason string) error {
	if blank(reason) {
		return apperrors.New(apperrors.CodeReasonRequired, "an adjustment reason is required")
	}
	if newValue < 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "stock cannot be negative")
	}
	if newValue < i.reserved {
		return apperrors.Newf(apperrors.CodeInvalidQuantity, "stock %d cannot be below reserved quantity %d", newValue, i.reserved)
	}
	i.physical = newValue
	i.changed()
	return nil
}

// UpdateLimits changes the restock thresholds.
func (i *Inventory) UpdateLimits(minimum, maximum int) error {
	if err := validateLimits(minimum, maximum); err != nil {
		return err
	}
	i.minimum = minimum
	i.maximum = maximum
	i.changed()
	return nil
}

// Checkpoint snapshots the inventory and returns a function restoring it.
func (i *Inventory) Checkpoint() func() {
	saved := *i
	return func() { *i = saved }
}

func (i *Inventory) changed() {
	i.lastUpdated = now()
	i.checkInvariants()
}

func (i *Inventory) checkInvariants() {
	switch {
	case i.physical < 0:
		apperrors.Violate("inventory", "product %s: physical stock %d is negative", i.ProductID, i.physical)
	case i.reserved < 0:
		apperrors.Violate("inventory", "product %s: reserved quantity %d is negative", i.ProductID, i.reserved)
	case i.reserved > i.physical:
		apperrors.Violate("inventory", "product %s: reserved %d exceeds physical %d", i.ProductID, i.reserved, i.physical)
	case i.Available() < 0:
		apperrors.Violate("inventory", "product %s: available stock is negative", i.ProductID)
	}
}

func validateLimits(minimum, maximum int) error {
	if minimum < 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "minimum stock cannot be negative")
	}
	if maximum <= minimum {
		return apperrors.Newf(apperrors.CodeInvalidQuantity, "maximum stock %d must be greater than minimum %d", maximum, minimum)
	}
	return nil
}

func validatePositiveQuantity(qty int) error {
	if qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "quantity must be greater than zero")
	}
	return nil
}
