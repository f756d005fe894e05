package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDrawer(t *testing.T, float string) *domain.CashDrawer {
	t.Helper()
	drawer, err := domain.NewCashDrawer(1, "Caja 1")
	require.NoError(t, err)
	require.NoError(t, drawer.Open(dec(float), "user-1"))
	return drawer
}

func TestCashDrawer_DayCycle(t *testing.T) {
	drawer := openDrawer(t, "500.00")

	require.NoError(t, drawer.RegisterSale(dec("23.20"), "20240315-0001", "user-1"))
	require.NoError(t, drawer.RegisterWithdrawal(dec("50.00"), "test", "user-1"))

	assert.True(t, dec("473.20").Equal(drawer.CalculatedBalance()), "calculated %s", drawer.CalculatedBalance())
	assert.True(t, dec("473.20").Equal(drawer.Balance()))
	assert.True(t, dec("23.20").Equal(drawer.TotalSales()))
	assert.True(t, dec("50.00").Equal(drawer.TotalWithdrawals()))

	require.NoError(t, drawer.Close(dec("473.20"), "user-1", "end of day"))
	require.NotNil(t, drawer.Difference())
	assert.True(t, drawer.Difference().IsZero())
	assert.False(t, drawer.IsOpen())
	assert.NotNil(t, drawer.ClosedAt())

	kinds := make([]domain.CashMovementKind, 0)
	for _, m := range drawer.Movements() {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []domain.CashMovementKind{domain.CashOpen, domain.CashSale, domain.CashWithdrawal, domain.CashClose}, kinds)
}

func TestCashDrawer_CloseWithDifference(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		wantDiff string
		concept  string
	}{
		{name: "shortage", declared: "95.00", wantDiff: "-5.00", concept: "drawer shortage"},
		{name: "overage", declared: "102.50", wantDiff: "2.50", concept: "drawer overage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drawer := openDrawer(t, "100.00")

			require.NoError(t, drawer.Close(dec(tt.declared), "user-1", ""))

			assert.True(t, dec(tt.wantDiff).Equal(*drawer.Difference()))
			assert.True(t, dec(tt.declared).Equal(drawer.Balance()))
			assert.True(t, drawer.Balance().Equal(drawer.CalculatedBalance()))
			movements := drawer.Movements()
			last := movements[len(movements)-1]
			assert.Equal(t, domain.CashAdjustment, last.Kind)
			assert.Equal(t, tt.concept, last.Concept)
		})
	}
}

func TestCashDrawer_Rules(t *testing.T) {
	t.Run("cannot open twice", func(t *testing.T) {
		drawer := openDrawer(t, "10")
		assert.True(t, apperrors.IsCode(drawer.Open(dec("10"), "user-1"), apperrors.CodeDrawerAlreadyOpen))
	})

	t.Run("movements need an open drawer", func(t *testing.T) {
		drawer, err := domain.NewCashDrawer(2, "Caja 2")
		require.NoError(t, err)
		assert.True(t, apperrors.IsCode(drawer.RegisterDeposit(dec("10"), "change", "user-1"), apperrors.CodeDrawerNotOpen))
		assert.True(t, apperrors.IsCode(drawer.Close(dec("0"), "user-1", ""), apperrors.CodeDrawerNotOpen))
	})

	t.Run("withdrawal cannot overdraw", func(t *testing.T) {
		drawer := openDrawer(t, "20.00")
		err := drawer.RegisterWithdrawal(dec("20.01"), "too much", "user-1")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidAmount))
		assert.True(t, dec("20.00").Equal(drawer.Balance()))
	})

	t.Run("open and close kinds are reserved", func(t *testing.T) {
		drawer := openDrawer(t, "20.00")
		err := drawer.RegisterMovement(domain.CashClose, dec("0"), "manual close", "user-1", "")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
	})

	t.Run("non-positive withdrawals and deposits", func(t *testing.T) {
		drawer := openDrawer(t, "20.00")
		assert.True(t, apperrors.IsCode(drawer.RegisterWithdrawal(dec("0"), "x", "user-1"), apperrors.CodeInvalidAmount))
		assert.True(t, apperrors.IsCode(drawer.RegisterDeposit(dec("-1"), "x", "user-1"), apperrors.CodeInvalidAmount))
	})

	t.Run("negative float", func(t *testing.T) {
		drawer, err := domain.NewCashDrawer(3, "Caja 3")
		require.NoError(t, err)
		assert.True(t, apperrors.IsCode(drawer.Open(dec("-1"), "user-1"), apperrors.CodeInvalidAmount))
	})

	t.Run("invalid drawer definition", func(t *testing.T) {
		_, err := domain.NewCashDrawer(0, "Caja")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
		_, err = domain.NewCashDrawer(1, "  ")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
	})
}

func TestCashDrawer_CancellationIsNegative(t *testing.T) {
	drawer := openDrawer(t, "100.00")
	require.NoError(t, drawer.RegisterSale(dec("30.00"), "20240315-0002", "user-1"))
	require.NoError(t, drawer.RegisterCancellation(dec("30.00"), "20240315-0002", "user-1"))

	assert.True(t, dec("100.00").Equal(drawer.Balance()))
	assert.True(t, dec("30.00").Equal(drawer.TotalCancellations()))
	movements := drawer.Movements()
	assert.True(t, dec("-30.00").Equal(movements[len(movements)-1].Amount))
	assert.Equal(t, "20240315-0002", movements[len(movements)-1].Reference)
}

func TestCashDrawer_PendingMovements(t *testing.T) {
	drawer := openDrawer(t, "100.00")
	assert.Len(t, drawer.PendingMovements(), 1)
	drawer.MarkMovementsPersisted()

	require.NoError(t, drawer.RegisterDeposit(dec("5"), "coins", "user-1"))
	pending := drawer.PendingMovements()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.CashDeposit, pending[0].Kind)
	assert.Equal(t, drawer.SessionID(), pending[0].SessionID)

	restored := domain.RestoreCashDrawer(drawer.Snapshot())
	assert.Empty(t, restored.PendingMovements())
	assert.True(t, drawer.Balance().Equal(restored.CalculatedBalance()))
}

func TestCashDrawer_CheckpointRestoresLedger(t *testing.T) {
	drawer := openDrawer(t, "100.00")
	restore := drawer.Checkpoint()

	require.NoError(t, drawer.RegisterSale(dec("10"), "20240315-0003", "user-1"))
	require.NoError(t, drawer.Close(dec("110"), "user-1", ""))
	restore()

	assert.True(t, drawer.IsOpen())
	assert.True(t, dec("100.00").Equal(drawer.Balance()))
	assert.Len(t, drawer.Movements(), 1)
}

func TestNewCashMovement_Signs(t *testing.T) {
	tests := []struct {
		name       string
		kind       domain.CashMovementKind
		amount     string
		wantAmount string
		wantCode   apperrors.Code
	}{
		{name: "withdrawal forced negative", kind: domain.CashWithdrawal, amount: "10", wantAmount: "-10"},
		{name: "cancellation forced negative", kind: domain.CashSaleCancellation, amount: "-4", wantAmount: "-4"},
		{name: "sale positive", kind: domain.CashSale, amount: "4", wantAmount: "4"},
		{name: "negative sale forced positive", kind: domain.CashSale, amount: "-4", wantAmount: "4"},
		{name: "negative deposit forced positive", kind: domain.CashDeposit, amount: "-1", wantAmount: "1"},
		{name: "negative opening forced positive", kind: domain.CashOpen, amount: "-250", wantAmount: "250"},
		{name: "unknown kind rejected", kind: domain.CashMovementKind("REFUND"), amount: "1", wantCode: apperrors.CodeInvalidArgument},
		{name: "adjustment keeps sign", kind: domain.CashAdjustment, amount: "-2.5", wantAmount: "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.NewCashMovement("drawer-1", "session-1", tt.kind, dec(tt.amount), "concept", "user-1", "", time.Now())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tt.wantAmount).Equal(m.Amount))
		})
	}
}
