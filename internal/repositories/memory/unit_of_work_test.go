package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, barcode string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.NewProductParams{
		Barcode:   barcode,
		Name:      "Soap",
		SalePrice: decimal.RequireFromString("15.00"),
		Cost:      decimal.RequireFromString("9.00"),
		CreatedBy: "u1",
	})
	require.NoError(t, err)
	return p
}

// seed stores a product with its inventory and returns the product id.
func seed(t *testing.T, store *memory.Store, physical int) string {
	t.Helper()
	ctx := context.Background()
	uow := store.New()
	require.NoError(t, uow.BeginTransaction(ctx, portsrepo.ReadCommitted))
	p := newProduct(t, "7509000000010")
	inv, err := domain.NewInventory(p.ProductID, physical, 1, 100)
	require.NoError(t, err)
	require.NoError(t, uow.Products().SaveProduct(ctx, p))
	require.NoError(t, uow.Inventories().SaveInventory(ctx, inv))
	require.NoError(t, uow.Commit(ctx))
	return p.ProductID
}

func TestUnitOfWork_TransactionState(t *testing.T) {
	ctx := context.Background()
	uow := memory.NewStore().New()

	_, err := uow.Products().FindProductByID(ctx, "x")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNoActiveTransaction))
	assert.True(t, apperrors.IsCode(uow.Commit(ctx), apperrors.CodeNoActiveTransaction))
	assert.True(t, apperrors.IsCode(uow.Rollback(ctx), apperrors.CodeNoActiveTransaction))

	require.NoError(t, uow.BeginTransaction(ctx, portsrepo.Serializable))
	assert.True(t, uow.InTransaction())
	assert.True(t, apperrors.IsCode(uow.BeginTransaction(ctx, portsrepo.Serializable), apperrors.CodeTransactionActive))
	require.NoError(t, uow.Rollback(ctx))
	assert.False(t, uow.InTransaction())
}

func TestUnitOfWork_RollbackRestoresStateAndEntities(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	productID := seed(t, store, 10)

	uow := store.New()
	require.NoError(t, uow.BeginTransaction(ctx, portsrepo.Serializable))
	inv, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, productID)
	require.NoError(t, err)
	again, err := uow.Inventories().FindInventoryByProductID(ctx, productID)
	require.NoError(t, err)
	assert.Same(t, inv, again)

	require.NoError(t, inv.Reserve(4))
	require.NoError(t, uow.Inventories().UpdateInventory(ctx, inv))
	assert.Equal(t, int64(2), inv.Version)
	require.NoError(t, uow.Rollback(ctx))

	assert.Equal(t, 0, inv.Reserved())
	assert.Equal(t, int64(1), inv.Version)

	check := store.New()
	require.NoError(t, check.BeginTransaction(ctx, portsrepo.ReadCommitted))
	stored, err := check.Inventories().FindInventoryByProductID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Reserved())
	require.NoError(t, check.Commit(ctx))
}

func TestUnitOfWork_StaleVersionIsRetryable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	productID := seed(t, store, 10)

	first := store.New()
	require.NoError(t, first.BeginTransaction(ctx, portsrepo.ReadCommitted))
	stale, err := first.Inventories().FindInventoryByProductID(ctx, productID)
	require.NoError(t, err)
	snapshot := stale.Snapshot()
	require.NoError(t, first.Rollback(ctx))

	second := store.New()
	require.NoError(t, second.BeginTransaction(ctx, portsrepo.ReadCommitted))
	fresh, err := second.Inventories().FindInventoryByProductID(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, fresh.IncrementStock(1))
	require.NoError(t, second.Inventories().UpdateInventory(ctx, fresh))
	require.NoError(t, second.Commit(ctx))

	third := store.New()
	require.NoError(t, third.BeginTransaction(ctx, portsrepo.ReadCommitted))
	outdated := domain.RestoreInventory(snapshot)
	require.NoError(t, outdated.IncrementStock(5))
	err = third.Inventories().UpdateInventory(ctx, outdated)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConcurrency))
	assert.True(t, apperrors.IsRetryable(err))
	require.NoError(t, third.Rollback(ctx))
}

func TestUnitOfWork_DuplicateBarcode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, 1)

	uow := store.New()
	require.NoError(t, uow.BeginTransaction(ctx, portsrepo.ReadCommitted))
	err := uow.Products().SaveProduct(ctx, newProduct(t, "7509000000010"))
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
	require.NoError(t, uow.Rollback(ctx))
}

func TestUnitOfWork_SingleOpenDrawer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uow := store.New()
	require.NoError(t, uow.BeginTransaction(ctx, portsrepo.Serializable))
	defer func() { _ = uow.Rollback(ctx) }()

	_, err := uow.CashDrawers().FindOpenCashDrawer(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	one, err := domain.NewCashDrawer(1, "Caja 1")
	require.NoError(t, err)
	require.NoError(t, one.Open(decimal.RequireFromString("100.00"), "u1"))
	require.NoError(t, uow.CashDrawers().SaveCashDrawer(ctx, one))

	two, err := domain.NewCashDrawer(2, "Caja 2")
	require.NoError(t, err)
	require.NoError(t, two.Open(decimal.Zero, "u1"))
	err = uow.CashDrawers().SaveCashDrawer(ctx, two)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDrawerAlreadyOpen))

	found, err := uow.CashDrawers().FindOpenCashDrawer(ctx)
	require.NoError(t, err)
	assert.Equal(t, one.DrawerID, found.DrawerID)
	assert.Empty(t, found.PendingMovements())
	assert.Len(t, found.Movements(), 1)
}

func TestUnitOfWork_FolioSequencePerDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	day := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	next := func(at time.Time, commit bool) int {
		uow := store.New()
		require.NoError(t, uow.BeginTransaction(ctx, portsrepo.Serializable))
		seq, err := uow.Folios().NextFolioSequence(ctx, at)
		require.NoError(t, err)
		if commit {
			require.NoError(t, uow.Commit(ctx))
		} else {
			require.NoError(t, uow.Rollback(ctx))
		}
		return seq
	}

	assert.Equal(t, 1, next(day, true))
	assert.Equal(t, 2, next(day, false))
	assert.Equal(t, 2, next(day.Add(30*time.Minute), true))
	assert.Equal(t, 1, next(day.Add(2*time.Hour), true))
}

func TestStore_BeginWaitsForContext(t *testing.T) {
	store := memory.NewStore()
	holder := store.New()
	require.NoError(t, holder.BeginTransaction(context.Background(), portsrepo.Serializable))
	defer func() { _ = holder.Rollback(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := store.New().BeginTransaction(ctx, portsrepo.Serializable)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
