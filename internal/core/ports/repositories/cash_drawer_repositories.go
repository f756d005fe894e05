package repositories

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// CashDrawerReader defines read operations for cash drawers
type CashDrawerReader interface {
	// FindCashDrawerByID retrieves a drawer with the movements of its current session.
	FindCashDrawerByID(ctx context.Context, drawerID string) (*domain.CashDrawer, error)

	// FindCashDrawerByNumber retrieves a drawer by its register number.
	FindCashDrawerByNumber(ctx context.Context, number int) (*domain.CashDrawer, error)

	// FindOpenCashDrawer returns the single open drawer, locking it for the
	// rest of the transaction.
	FindOpenCashDrawer(ctx context.Context) (*domain.CashDrawer, error)

	// ListCashMovements returns the movements of a drawer, newest first.
	ListCashMovements(ctx context.Context, drawerID string, limit int, after *PageCursor) ([]domain.CashMovement, error)
}

// CashDrawerWriter defines write operations for cash drawers
type CashDrawerWriter interface {
	// SaveCashDrawer persists a new drawer and its pending movements.
	SaveCashDrawer(ctx context.Context, drawer *domain.CashDrawer) error

	// UpdateCashDrawer stores the drawer state and appends its pending
	// movements, checking the drawer version.
	UpdateCashDrawer(ctx context.Context, drawer *domain.CashDrawer) error
}

// CashDrawerRepositoryFacade combines all drawer-related repository interfaces
type CashDrawerRepositoryFacade interface {
	CashDrawerReader
	CashDrawerWriter
}
