package services

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/shopspring/decimal"
)

// CashDrawerReaderSvc defines read operations for cash drawers
type CashDrawerReaderSvc interface {
	// GetOpenDrawer returns the drawer currently open.
	GetOpenDrawer(ctx context.Context) (*domain.CashDrawer, error)

	// ListMovements retrieves a page of the cash movements of a drawer.
	ListMovements(ctx context.Context, drawerID string, params dto.ListParams) (*dto.ListCashMovementsResponse, error)
}

// CashDrawerWriterSvc defines write operations for cash drawers
type CashDrawerWriterSvc interface {
	// OpenDrawer opens the drawer with the given number, creating it on first use.
	OpenDrawer(ctx context.Context, number int, openingFloat decimal.Decimal, userID string) (*domain.CashDrawer, error)

	// CloseDrawer closes the open drawer with the cash counted by the cashier.
	CloseDrawer(ctx context.Context, declared decimal.Decimal, userID, notes string) (*domain.CashDrawer, error)

	// WithdrawCash takes cash out of the open drawer.
	WithdrawCash(ctx context.Context, amount decimal.Decimal, reason, userID string) (*domain.CashDrawer, error)

	// DepositCash puts cash into the open drawer.
	DepositCash(ctx context.Context, amount decimal.Decimal, reason, userID string) (*domain.CashDrawer, error)
}

// CashDrawerSvcFacade combines all drawer-related service interfaces
type CashDrawerSvcFacade interface {
	CashDrawerReaderSvc
	CashDrawerWriterSvc
}
