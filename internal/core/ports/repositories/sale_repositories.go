package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// SaleReader defines read operations for sales
type SaleReader interface {
	// FindSaleByID retrieves a sale with its items and payments.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// FindSaleByFolio retrieves a sale by its receipt number.
	FindSaleByFolio(ctx context.Context, folio string) (*domain.Sale, error)

	// ListSalesByDate returns the sales created on the given day, newest first.
	ListSalesByDate(ctx context.Context, day time.Time, limit int, after *PageCursor) ([]*domain.Sale, error)
}

// SaleWriter defines write operations for sales
type SaleWriter interface {
	// SaveSale persists a new sale together with its children.
	SaveSale(ctx context.Context, sale *domain.Sale) error

	// UpdateSale stores the sale header and replaces its children, checking
	// the sale version.
	UpdateSale(ctx context.Context, sale *domain.Sale) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
