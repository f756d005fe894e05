package domain_test

import (
	"testing"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventory(t *testing.T, physical int) *domain.Inventory {
	t.Helper()
	inv, err := domain.NewInventory("prod-1", physical, domain.DefaultMinimumStock, domain.DefaultMaximumStock)
	require.NoError(t, err)
	return inv
}

func TestInventory_ReserveUntilExhausted(t *testing.T) {
	inv := newInventory(t, 10)

	require.NoError(t, inv.Reserve(10))
	assert.Equal(t, 0, inv.Available())
	assert.Equal(t, 10, inv.Reserved())

	err := inv.Reserve(1)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientStock))
	assert.Equal(t, 10, inv.Reserved(), "a failed reserve must not change state")
}

func TestNewInventory_Validation(t *testing.T) {
	tests := []struct {
		name     string
		initial  int
		min, max int
		wantCode apperrors.Code
	}{
		{name: "valid", initial: 5, min: 1, max: 10},
		{name: "negative initial", initial: -1, min: 1, max: 10, wantCode: apperrors.CodeInvalidQuantity},
		{name: "max not above min", initial: 1, min: 10, max: 10, wantCode: apperrors.CodeInvalidQuantity},
		{name: "initial over max", initial: 11, min: 1, max: 10, wantCode: apperrors.CodeInvalidQuantity},
		{name: "negative min", initial: 1, min: -1, max: 10, wantCode: apperrors.CodeInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := domain.NewInventory("prod-1", tt.initial, tt.min, tt.max)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.initial, inv.Physical())
				return
			}
			assert.Nil(t, inv)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestInventory_Operations(t *testing.T) {
	tests := []struct {
		name         string
		physical     int
		reserved     int
		op           func(inv *domain.Inventory) error
		wantCode     apperrors.Code
		wantPhysical int
		wantReserved int
	}{
		{
			name: "release clamps at zero", physical: 10, reserved: 2,
			op:           func(inv *domain.Inventory) error { return inv.Release(5) },
			wantPhysical: 10, wantReserved: 0,
		},
		{
			name: "confirm removes reserved units", physical: 10, reserved: 4,
			op:           func(inv *domain.Inventory) error { return inv.Confirm(3) },
			wantPhysical: 7, wantReserved: 1,
		},
		{
			name: "confirm more than reserved", physical: 10, reserved: 2,
			op:       func(inv *domain.Inventory) error { return inv.Confirm(3) },
			wantCode: apperrors.CodeInvalidQuantity, wantPhysical: 10, wantReserved: 2,
		},
		{
			name: "increment within maximum", physical: 10,
			op:           func(inv *domain.Inventory) error { return inv.IncrementStock(90) },
			wantPhysical: 100,
		},
		{
			name: "increment over maximum", physical: 999,
			op:       func(inv *domain.Inventory) error { return inv.IncrementStock(2) },
			wantCode: apperrors.CodeInvalidQuantity, wantPhysical: 999,
		},
		{
			name: "returned units may pass maximum", physical: 999,
			op:           func(inv *domain.Inventory) error { return inv.ReturnStock(2) },
			wantPhysical: 1001,
		},
		{
			name: "decrement below reserved", physical: 10, reserved: 8,
			op:       func(inv *domain.Inventory) error { return inv.DecrementStock(3) },
			wantCode: apperrors.CodeInsufficientStock, wantPhysical: 10, wantReserved: 8,
		},
		{
			name: "adjust requires reason", physical: 10,
			op:       func(inv *domain.Inventory) error { return inv.AdjustStock(5, " ") },
			wantCode: apperrors.CodeReasonRequired, wantPhysical: 10,
		},
		{
			name: "adjust below reserved", physical: 10, reserved: 6,
			op:       func(inv *domain.Inventory) error { return inv.AdjustStock(5, "count") },
			wantCode: apperrors.CodeInvalidQuantity, wantPhysical: 10, wantReserved: 6,
		},
		{
			name: "adjust to counted value", physical: 10, reserved: 2,
			op:           func(inv *domain.Inventory) error { return inv.AdjustStock(4, "physical count") },
			wantPhysical: 4, wantReserved: 2,
		},
		{
			name: "zero quantity rejected", physical: 10,
			op:       func(inv *domain.Inventory) error { return inv.Reserve(0) },
			wantCode: apperrors.CodeInvalidQuantity, wantPhysical: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newInventory(t, tt.physical)
			if tt.reserved > 0 {
				require.NoError(t, inv.Reserve(tt.reserved))
			}

			err := tt.op(inv)

			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			}
			assert.Equal(t, tt.wantPhysical, inv.Physical())
			assert.Equal(t, tt.wantReserved, inv.Reserved())
			assert.NoError(t, domain.ConsistencyCheck(inv))
		})
	}
}

func TestInventory_CheckpointRestores(t *testing.T) {
	inv := newInventory(t, 10)
	restore := inv.Checkpoint()

	require.NoError(t, inv.Reserve(4))
	require.NoError(t, inv.Confirm(4))
	restore()

	assert.Equal(t, 10, inv.Physical())
	assert.Equal(t, 0, inv.Reserved())
}

func TestInventory_RestoredCorruptStatePanicsOnMutation(t *testing.T) {
	inv := domain.RestoreInventory(domain.InventorySnapshot{
		ProductID: "prod-1", Physical: 2, Reserved: 5, Minimum: 1, Maximum: 10,
	})
	assert.Error(t, domain.ConsistencyCheck(inv))

	assert.PanicsWithValue(t,
		apperrors.InvariantViolation{Entity: "inventory", Message: "product prod-1: reserved 5 exceeds physical 3"},
		func() { _ = inv.IncrementStock(1) })
}

func TestInventoryValidator(t *testing.T) {
	inv, err := domain.NewInventory("prod-1", 8, 10, 50)
	require.NoError(t, err)
	require.NoError(t, inv.Reserve(4))

	assert.True(t, domain.NeedsRestock(inv))
	assert.Equal(t, 42, domain.RestockQuantity(inv))
	assert.True(t, domain.CriticalStock(inv))
	assert.NoError(t, domain.ValidateAvailable(inv, 4))
	assert.True(t, apperrors.IsCode(domain.ValidateAvailable(inv, 5), apperrors.CodeInsufficientStock))
	assert.True(t, apperrors.IsCode(domain.ValidateQuantity(domain.MaxLineQuantity+1), apperrors.CodeInvalidQuantity))

	lines := []domain.LineItem{{ProductID: "prod-1", ProductName: "Cola", Quantity: 9}}
	err = domain.ValidateStockForSale(lines, map[string]*domain.Inventory{"prod-1": inv})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInsufficientStock))
	err = domain.ValidateStockForSale(lines, map[string]*domain.Inventory{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInventoryNotFound))
}
