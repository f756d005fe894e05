package services

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/dto"
)

// SaleReaderSvc defines read operations for sales
type SaleReaderSvc interface {
	// GetSale retrieves a sale by its ID.
	GetSale(ctx context.Context, saleID string) (*domain.Sale, error)

	// GetSaleByFolio retrieves a sale by its receipt number.
	GetSaleByFolio(ctx context.Context, folio string) (*domain.Sale, error)

	// ListSalesByDate retrieves a page of the sales of one day.
	ListSalesByDate(ctx context.Context, params dto.ListSalesParams) (*dto.ListSalesResponse, error)
}

// SaleCheckoutSvc defines the steps of a checkout
type SaleCheckoutSvc interface {
	// CreateSale starts a new sale. An open cash drawer is required.
	CreateSale(ctx context.Context, userID string) (*domain.Sale, error)

	// ScanProduct reserves stock and adds qty units of the product to the sale.
	ScanProduct(ctx context.Context, saleID, barcode string, qty int, userID string) (*domain.Sale, error)

	// RemoveItem drops a line and releases its reserved stock.
	RemoveItem(ctx context.Context, saleID, productID, userID string) (*domain.Sale, error)

	// SetItemQuantity changes a line quantity, reserving or releasing the difference.
	SetItemQuantity(ctx context.Context, saleID, productID string, qty int, userID string) (*domain.Sale, error)

	// RegisterPayment pays the sale in full.
	RegisterPayment(ctx context.Context, saleID string, req dto.RegisterPaymentRequest) (*domain.Sale, error)

	// FinalizeSale confirms stock, records the stock movements and books the cash.
	FinalizeSale(ctx context.Context, saleID, userID string) (*domain.Sale, error)
}

// SaleCancellationSvc defines the ways a sale can be undone
type SaleCancellationSvc interface {
	// CancelSale abandons an unpaid sale and releases its reservations.
	CancelSale(ctx context.Context, saleID, reason, userID string) (*domain.Sale, error)

	// ReverseSale cancels a paid sale. A finalized sale gets its stock back and
	// its cash refunded; an unfinalized one only releases its reservations.
	ReverseSale(ctx context.Context, saleID, reason, userID string) (*domain.Sale, error)
}

// SaleSvcFacade combines all sale-related service interfaces
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleCheckoutSvc
	SaleCancellationSvc
}
