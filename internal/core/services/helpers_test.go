package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/stretchr/testify/mock"
)

// testClock is a controllable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockPublisher is a mock type for the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockProductCache is a mock type for the cache.ProductCache interface
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Get(ctx context.Context, barcode string) (*domain.Product, bool, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductCache) Set(ctx context.Context, product *domain.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockProductCache) Invalidate(ctx context.Context, barcode string) error {
	args := m.Called(ctx, barcode)
	return args.Error(0)
}

// faultyFactory hands out units of work whose stock movement repository
// fails on the failAt-th write.
type faultyFactory struct {
	inner  portsrepo.UnitOfWorkFactory
	failAt int
	err    error
}

func (f *faultyFactory) New() portsrepo.UnitOfWork {
	return &faultyUnitOfWork{UnitOfWork: f.inner.New(), factory: f}
}

type faultyUnitOfWork struct {
	portsrepo.UnitOfWork
	factory *faultyFactory
	writes  int
}

func (u *faultyUnitOfWork) StockMovements() portsrepo.StockMovementRepository {
	return &faultyMovements{StockMovementRepository: u.UnitOfWork.StockMovements(), uow: u}
}

type faultyMovements struct {
	portsrepo.StockMovementRepository
	uow *faultyUnitOfWork
}

func (m *faultyMovements) SaveStockMovement(ctx context.Context, movement domain.StockMovement) error {
	m.uow.writes++
	if m.uow.writes == m.uow.factory.failAt {
		return m.uow.factory.err
	}
	return m.StockMovementRepository.SaveStockMovement(ctx, movement)
}

// conflictingFactory makes the first attempts of every sale update fail with
// a version conflict.
type conflictingFactory struct {
	inner     portsrepo.UnitOfWorkFactory
	mu        sync.Mutex
	conflicts int
}

func (f *conflictingFactory) New() portsrepo.UnitOfWork {
	return &conflictingUnitOfWork{UnitOfWork: f.inner.New(), factory: f}
}

func (f *conflictingFactory) take() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts == 0 {
		return false
	}
	f.conflicts--
	return true
}

type conflictingUnitOfWork struct {
	portsrepo.UnitOfWork
	factory *conflictingFactory
}

func (u *conflictingUnitOfWork) Sales() portsrepo.SaleRepositoryFacade {
	return &conflictingSales{SaleRepositoryFacade: u.UnitOfWork.Sales(), factory: u.factory}
}

type conflictingSales struct {
	portsrepo.SaleRepositoryFacade
	factory *conflictingFactory
}

func (s *conflictingSales) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	if s.factory.take() {
		return apperrors.NewConcurrencyError("sale", sale.SaleID)
	}
	return s.SaleRepositoryFacade.UpdateSale(ctx, sale)
}

// violatingFactory hands out units of work whose sale repository stages the
// update and then trips an invariant violation, once.
type violatingFactory struct {
	inner    portsrepo.UnitOfWorkFactory
	mu       sync.Mutex
	violated bool
}

func (f *violatingFactory) New() portsrepo.UnitOfWork {
	return &violatingUnitOfWork{UnitOfWork: f.inner.New(), factory: f}
}

func (f *violatingFactory) take() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.violated {
		return false
	}
	f.violated = true
	return true
}

type violatingUnitOfWork struct {
	portsrepo.UnitOfWork
	factory *violatingFactory
}

func (u *violatingUnitOfWork) Sales() portsrepo.SaleRepositoryFacade {
	return &violatingSales{SaleRepositoryFacade: u.UnitOfWork.Sales(), factory: u.factory}
}

type violatingSales struct {
	portsrepo.SaleRepositoryFacade
	factory *violatingFactory
}

func (s *violatingSales) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	if err := s.SaleRepositoryFacade.UpdateSale(ctx, sale); err != nil {
		return err
	}
	if s.factory.take() {
		apperrors.Violate("sale", "sale %s total drifted from its lines", sale.SaleID)
	}
	return nil
}
