package repositories

import (
	"context"
	"time"
)

// IsolationLevel is the transaction isolation requested by a use case.
type IsolationLevel int

const (
	ReadCommitted IsolationLevel = iota
	RepeatableRead
	Serializable
)

func (l IsolationLevel) String() string {
	switch l {
	case RepeatableRead:
		return "repeatable read"
	case Serializable:
		return "serializable"
	default:
		return "read committed"
	}
}

// Trackable is an in-memory entity whose state can be restored when a unit of
// work rolls back.
type Trackable interface {
	// Checkpoint captures the current state and returns a function that restores it.
	Checkpoint() func()
}

// PageCursor marks the last row of a previous page in keyset pagination.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

// UnitOfWork groups repository calls into one atomic, isolation-leveled
// transaction. A UnitOfWork serves a single use case invocation and is not
// safe for concurrent use.
type UnitOfWork interface {
	// BeginTransaction opens the transaction. It fails with TRANSACTION_ACTIVE
	// when one is already open.
	BeginTransaction(ctx context.Context, isolation IsolationLevel) error

	// Commit makes every change durable. Version conflicts and serialization
	// failures surface as concurrency errors after the transaction is rolled back.
	Commit(ctx context.Context) error

	// Rollback discards the transaction and restores every tracked entity to
	// the state it had when it was tracked.
	Rollback(ctx context.Context) error

	// Track registers an entity for restoration on rollback. Entities loaded
	// through the repositories are tracked automatically.
	Track(entity Trackable)

	// InTransaction reports whether a transaction is open.
	InTransaction() bool

	Products() ProductRepositoryFacade
	Inventories() InventoryRepositoryFacade
	Reservations() ReservationRepositoryFacade
	Sales() SaleRepositoryFacade
	CashDrawers() CashDrawerRepositoryFacade
	StockMovements() StockMovementRepository
	Folios() FolioSequenceRepository
}

// UnitOfWorkFactory creates a fresh UnitOfWork per use case.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
