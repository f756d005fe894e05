package memory

import (
	"context"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
)

// UnitOfWork stages changes on a private copy of the store and publishes the
// copy on commit.
type UnitOfWork struct {
	store    *Store
	staged   *state
	restores []func()

	// identity maps: one in-memory instance per row and transaction
	products     map[string]*domain.Product
	inventories  map[string]*domain.Inventory
	reservations map[string]*domain.Reservation
	sales        map[string]*domain.Sale
	drawers      map[string]*domain.CashDrawer
}

// Ensure UnitOfWork implements the UnitOfWork interface
var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) BeginTransaction(ctx context.Context, _ portsrepo.IsolationLevel) error {
	if u.staged != nil {
		return apperrors.New(apperrors.CodeTransactionActive, "a transaction is already active")
	}
	if err := u.store.acquire(ctx); err != nil {
		return err
	}
	u.staged = u.store.committed.clone()
	u.restores = nil
	u.products = map[string]*domain.Product{}
	u.inventories = map[string]*domain.Inventory{}
	u.reservations = map[string]*domain.Reservation{}
	u.sales = map[string]*domain.Sale{}
	u.drawers = map[string]*domain.CashDrawer{}
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.staged == nil {
		return apperrors.New(apperrors.CodeNoActiveTransaction, "no active transaction to commit")
	}
	u.store.committed = u.staged
	u.end()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.staged == nil {
		return apperrors.New(apperrors.CodeNoActiveTransaction, "no active transaction to roll back")
	}
	for i := len(u.restores) - 1; i >= 0; i-- {
		u.restores[i]()
	}
	u.end()
	return nil
}

func (u *UnitOfWork) end() {
	u.staged = nil
	u.restores = nil
	u.store.release()
}

func (u *UnitOfWork) Track(entity portsrepo.Trackable) {
	if u.staged == nil {
		return
	}
	u.restores = append(u.restores, entity.Checkpoint())
}

func (u *UnitOfWork) InTransaction() bool {
	return u.staged != nil
}

func (u *UnitOfWork) Products() portsrepo.ProductRepositoryFacade {
	return &productRepository{uow: u}
}

func (u *UnitOfWork) Inventories() portsrepo.InventoryRepositoryFacade {
	return &inventoryRepository{uow: u}
}

func (u *UnitOfWork) Reservations() portsrepo.ReservationRepositoryFacade {
	return &reservationRepository{uow: u}
}

func (u *UnitOfWork) Sales() portsrepo.SaleRepositoryFacade {
	return &saleRepository{uow: u}
}

func (u *UnitOfWork) CashDrawers() portsrepo.CashDrawerRepositoryFacade {
	return &cashDrawerRepository{uow: u}
}

func (u *UnitOfWork) StockMovements() portsrepo.StockMovementRepository {
	return &stockMovementRepository{uow: u}
}

func (u *UnitOfWork) Folios() portsrepo.FolioSequenceRepository {
	return &folioRepository{uow: u}
}

// data returns the staged state, failing outside of a transaction.
func (u *UnitOfWork) data() (*state, error) {
	if u.staged == nil {
		return nil, apperrors.New(apperrors.CodeNoActiveTransaction, "repository used outside of a transaction")
	}
	return u.staged, nil
}

// checkVersion compares the version an entity was loaded with to the stored one.
func checkVersion(entity, id string, stored, loaded int64) error {
	if stored != loaded {
		return apperrors.NewConcurrencyError(entity, id)
	}
	return nil
}
