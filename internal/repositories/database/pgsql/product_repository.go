package pgsql

import (
	"context"
	"log/slog"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/SscSPs/pos_core/internal/models"
	"github.com/SscSPs/pos_core/internal/utils/mapping"
)

const productColumns = `product_id, barcode, name, description, category, sale_price, cost, taxed, is_active, version,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	uow *UnitOfWork
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func (r *PgxProductRepository) find(ctx context.Context, where string, arg any, notFound error) (*domain.Product, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	row, err := collectOne[models.Product](ctx, tx, `SELECT `+productColumns+` FROM products WHERE `+where, arg)
	if err != nil {
		return nil, notFoundOr(err, notFound, "failed to load product")
	}
	product := mapping.ToDomainProduct(row)
	r.uow.Track(product)
	return product, nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.find(ctx, "product_id = $1", productID,
		apperrors.Newf(apperrors.CodeProductNotFound, "product %s not found", productID))
}

// FindProductByBarcode retrieves a product by its barcode.
func (r *PgxProductRepository) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return r.find(ctx, "barcode = $1", barcode,
		apperrors.Newf(apperrors.CodeProductNotFound, "product with barcode %s not found", barcode))
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product *domain.Product) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	r.uow.Track(product)
	product.Version = 1
	m := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.ProductID, m.Barcode, m.Name, m.Description, m.Category, m.SalePrice, m.Cost, m.Taxed, m.IsActive, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("product insert failed", slog.String("product_id", m.ProductID), slog.String("error", err.Error()))
		return translate(err, "failed to save product "+m.ProductID)
	}
	return nil
}

// UpdateProduct stores a product if nobody changed it since it was loaded.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET barcode = $3, name = $4, description = $5, category = $6, sale_price = $7, cost = $8,
			taxed = $9, is_active = $10, last_updated_at = $11, last_updated_by = $12, version = version + 1
		WHERE product_id = $1 AND version = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.ProductID, m.Version, m.Barcode, m.Name, m.Description, m.Category, m.SalePrice, m.Cost,
		m.Taxed, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translate(err, "failed to update product "+m.ProductID)
	}
	if err := checkAffected(tag, "product", m.ProductID); err != nil {
		return err
	}
	r.uow.Track(product)
	product.Version++
	return nil
}
