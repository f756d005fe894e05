package repositories

import (
	"context"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// ProductReader defines read operations for catalogue data
type ProductReader interface {
	// FindProductByID retrieves a product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductByBarcode retrieves a product by its normalized barcode.
	FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
}

// ProductWriter defines write operations for catalogue data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product *domain.Product) error

	// UpdateProduct stores changes, checking the product version.
	UpdateProduct(ctx context.Context, product *domain.Product) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
