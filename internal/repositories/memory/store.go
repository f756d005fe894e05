// Package memory is an in-process implementation of the unit of work and
// repositories. It backs tests and runs the binary when no database is
// configured.
package memory

import (
	"context"
	"maps"
	"slices"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
)

// state is the committed data. Values are stored, never pointers, so that
// no entity handed to a caller aliases stored data.
type state struct {
	products       map[string]domain.Product
	inventories    map[string]domain.InventorySnapshot // by product id
	reservations   map[string]domain.Reservation
	sales          map[string]domain.SaleSnapshot
	drawers        map[string]domain.CashDrawerSnapshot // without movements
	cashMovements  map[string][]domain.CashMovement     // by drawer id
	stockMovements map[string][]domain.StockMovement    // by product id
	folios         map[string]int                       // by yyyymmdd
}

func newState() *state {
	return &state{
		products:       map[string]domain.Product{},
		inventories:    map[string]domain.InventorySnapshot{},
		reservations:   map[string]domain.Reservation{},
		sales:          map[string]domain.SaleSnapshot{},
		drawers:        map[string]domain.CashDrawerSnapshot{},
		cashMovements:  map[string][]domain.CashMovement{},
		stockMovements: map[string][]domain.StockMovement{},
		folios:         map[string]int{},
	}
}

// clone copies the maps. Slices inside stored values are never written in
// place, so sharing them is safe.
func (s *state) clone() *state {
	return &state{
		products:       maps.Clone(s.products),
		inventories:    maps.Clone(s.inventories),
		reservations:   maps.Clone(s.reservations),
		sales:          maps.Clone(s.sales),
		drawers:        maps.Clone(s.drawers),
		cashMovements:  maps.Clone(s.cashMovements),
		stockMovements: maps.Clone(s.stockMovements),
		folios:         maps.Clone(s.folios),
	}
}

// Store holds the committed state. Transactions are fully serialized: a unit
// of work owns the store from BeginTransaction until Commit or Rollback, which
// gives every isolation level serializable semantics and makes row locks
// implicit.
type Store struct {
	sem       chan struct{}
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:       make(chan struct{}, 1),
		committed: newState(),
	}
}

// New creates a unit of work bound to the store.
func (s *Store) New() portsrepo.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Ensure Store implements the UnitOfWorkFactory interface
var _ portsrepo.UnitOfWorkFactory = (*Store)(nil)

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperrors.Retryable(ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

// appendClone appends without writing into a backing array that committed
// state may share.
func appendClone[T any](list []T, items ...T) []T {
	return append(slices.Clip(list), items...)
}
