package services

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/shopspring/decimal"
)

// ProductReaderSvc defines read operations for the catalogue
type ProductReaderSvc interface {
	// GetProduct retrieves a product by its ID.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)

	// GetProductByBarcode retrieves a product by barcode, served from cache when possible.
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
}

// ProductWriterSvc defines write operations for the catalogue
type ProductWriterSvc interface {
	// CreateProduct creates a product and its inventory row.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)

	// UpdatePrices changes the sale price and cost of a product.
	UpdatePrices(ctx context.Context, productID string, price, cost decimal.Decimal, userID string) (*domain.Product, error)

	// DeactivateProduct takes a product off sale.
	DeactivateProduct(ctx context.Context, productID, userID string) error
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
