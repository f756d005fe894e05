package domain

import (
	"errors"
	"fmt"

	"github.com/SscSPs/pos_core/internal/apperrors"
)

// ValidateQuantity checks a requested unit quantity.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return apperrors.New(apperrors.CodeInvalidQuantity, "quantity must be greater than zero")
	}
	if qty > MaxLineQuantity {
		return apperrors.Newf(apperrors.CodeInvalidQuantity, "quantity cannot exceed %d units", MaxLineQuantity)
	}
	return nil
}

// ValidateAvailable checks that inv can serve qty more units.
func ValidateAvailable(inv *Inventory, qty int) error {
	if inv == nil {
		return apperrors.New(apperrors.CodeInventoryNotFound, "inventory not found")
	}
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if inv.Available() < qty {
		return apperrors.Newf(apperrors.CodeInsufficientStock, "insufficient stock for product %s: available %d, requested %d", inv.ProductID, inv.Available(), qty)
	}
	return nil
}

// ValidateStockForSale checks every line against the physical stock of its
// product. inventories is keyed by product id.
func ValidateStockForSale(lines []LineItem, inventories map[string]*Inventory) error {
	if len(lines) == 0 {
		return apperrors.New(apperrors.CodeSaleWithoutItems, "sale has no items")
	}
	for _, line := range lines {
		inv, ok := inventories[line.ProductID]
		if !ok || inv == nil {
			return apperrors.Newf(apperrors.CodeInventoryNotFound, "inventory not found for product %s", line.ProductID)
		}
		if inv.Physical() < line.Quantity {
			return apperrors.Newf(apperrors.CodeInsufficientStock, "insufficient stock for %s: in stock %d, required %d", line.ProductName, inv.Physical(), line.Quantity)
		}
	}
	return nil
}

// NeedsRestock reports whether the product reached its minimum.
func NeedsRestock(inv *Inventory) bool {
	return inv.IsLowStock()
}

// RestockQuantity is the number of units needed to refill up to the maximum.
func RestockQuantity(inv *Inventory) int {
	if !NeedsRestock(inv) {
		return 0
	}
	return inv.Maximum() - inv.Physical()
}

// CriticalStock reports whether available stock fell to half the minimum or below.
func CriticalStock(inv *Inventory) bool {
	return inv.Available()*2 <= inv.Minimum()
}

// ConsistencyCheck returns every broken stock rule as an error, without
// panicking. It is meant for audits of persisted data.
func ConsistencyCheck(inv *Inventory) error {
	var errs []error
	if inv.Physical() < 0 {
		errs = append(errs, fmt.Errorf("physical stock %d is negative", inv.Physical()))
	}
	if inv.Reserved() < 0 {
		errs = append(errs, fmt.Errorf("reserved quantity %d is negative", inv.Reserved()))
	}
	if inv.Reserved() > inv.Physical() {
		errs = append(errs, fmt.Errorf("reserved %d exceeds physical %d", inv.Reserved(), inv.Physical()))
	}
	if inv.Maximum() <= inv.Minimum() {
		errs = append(errs, fmt.Errorf("maximum %d is not greater than minimum %d", inv.Maximum(), inv.Minimum()))
	}
	return errors.Join(errs...)
}
