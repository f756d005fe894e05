package pgsql

import (
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWorkFactory opens PostgreSQL backed units of work on a shared pool.
type UnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

var _ portsrepo.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

func NewUnitOfWorkFactory(dbPool *pgxpool.Pool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: dbPool}
}

func (f *UnitOfWorkFactory) New() portsrepo.UnitOfWork {
	return &UnitOfWork{pool: f.pool}
}

func (u *UnitOfWork) Products() portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{uow: u}
}

func (u *UnitOfWork) Inventories() portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{uow: u}
}

func (u *UnitOfWork) Reservations() portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{uow: u}
}

func (u *UnitOfWork) Sales() portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{uow: u}
}

func (u *UnitOfWork) CashDrawers() portsrepo.CashDrawerRepositoryFacade {
	return &PgxCashDrawerRepository{uow: u}
}

func (u *UnitOfWork) StockMovements() portsrepo.StockMovementRepository {
	return &PgxStockMovementRepository{uow: u}
}

func (u *UnitOfWork) Folios() portsrepo.FolioSequenceRepository {
	return &PgxFolioRepository{uow: u}
}
