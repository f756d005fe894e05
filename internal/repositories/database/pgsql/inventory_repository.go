package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/models"
	"github.com/SscSPs/pos_core/internal/utils/mapping"
)

const inventoryColumns = `inventory_id, product_id, physical, reserved, minimum, maximum, last_updated, version`

type PgxInventoryRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func (r *PgxInventoryRepository) findByProduct(ctx context.Context, productID string, lock bool) (*domain.Inventory, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE product_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	row, err := collectOne[models.Inventory](ctx, tx, query, productID)
	if err != nil {
		return nil, notFoundOr(err,
			apperrors.Newf(apperrors.CodeInventoryNotFound, "inventory for product %s not found", productID),
			"failed to load inventory")
	}
	inv := mapping.ToDomainInventory(row)
	r.uow.Track(inv)
	return inv, nil
}

func (r *PgxInventoryRepository) FindInventoryByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	return r.findByProduct(ctx, productID, false)
}

// FindInventoryByProductIDForUpdate takes a row lock held until the
// transaction ends, serializing concurrent reservations of the same product.
func (r *PgxInventoryRepository) FindInventoryByProductIDForUpdate(ctx context.Context, productID string) (*domain.Inventory, error) {
	return r.findByProduct(ctx, productID, true)
}

func (r *PgxInventoryRepository) ListLowStock(ctx context.Context, limit int) ([]*domain.Inventory, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM inventories
		WHERE physical <= minimum
		ORDER BY physical, product_id
		LIMIT %d;
	`, inventoryColumns, pageLimit(limit))
	rows, err := collect[models.Inventory](ctx, tx, query)
	if err != nil {
		return nil, translate(err, "failed to list low stock")
	}
	result := make([]*domain.Inventory, len(rows))
	for i, row := range rows {
		result[i] = mapping.ToDomainInventory(row)
	}
	return result, nil
}

func (r *PgxInventoryRepository) SaveInventory(ctx context.Context, inventory *domain.Inventory) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	r.uow.Track(inventory)
	inventory.Version = 1
	m := mapping.ToModelInventory(inventory)
	_, err = tx.Exec(ctx, `
		INSERT INTO inventories (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, m.InventoryID, m.ProductID, m.Physical, m.Reserved, m.Minimum, m.Maximum, m.LastUpdated, m.Version)
	if err != nil {
		return translate(err, "failed to save inventory for product "+m.ProductID)
	}
	return nil
}

func (r *PgxInventoryRepository) UpdateInventory(ctx context.Context, inventory *domain.Inventory) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	m := mapping.ToModelInventory(inventory)
	tag, err := tx.Exec(ctx, `
		UPDATE inventories
		SET physical = $3, reserved = $4, minimum = $5, maximum = $6, last_updated = $7, version = version + 1
		WHERE product_id = $1 AND version = $2;
	`, m.ProductID, m.Version, m.Physical, m.Reserved, m.Minimum, m.Maximum, m.LastUpdated)
	if err != nil {
		return translate(err, "failed to update inventory for product "+m.ProductID)
	}
	if err := checkAffected(tag, "inventory", m.ProductID); err != nil {
		return err
	}
	r.uow.Track(inventory)
	inventory.Version++
	return nil
}
