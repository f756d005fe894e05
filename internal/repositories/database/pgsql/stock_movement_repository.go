package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/models"
	"github.com/SscSPs/pos_core/internal/utils/mapping"
)

const stockMovementColumns = `movement_id, product_id, kind, quantity, stock_before, stock_after, concept,
	user_id, sale_id, reference, created_at`

type PgxStockMovementRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.StockMovementRepository = (*PgxStockMovementRepository)(nil)

func (r *PgxStockMovementRepository) SaveStockMovement(ctx context.Context, movement domain.StockMovement) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	m := mapping.ToModelStockMovement(movement)
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (`+stockMovementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, m.MovementID, m.ProductID, m.Kind, m.Quantity, m.StockBefore, m.StockAfter, m.Concept,
		m.UserID, m.SaleID, m.Reference, m.CreatedAt)
	if err != nil {
		return translate(err, "failed to save stock movement "+m.MovementID)
	}
	return nil
}

func (r *PgxStockMovementRepository) ListStockMovements(ctx context.Context, productID string, limit int, after *portsrepo.PageCursor) ([]domain.StockMovement, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if after != nil {
		query += ` AND (created_at, movement_id) < ($2, $3)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, movement_id DESC LIMIT %d`, pageLimit(limit))

	rows, err := collect[models.StockMovement](ctx, tx, query, args...)
	if err != nil {
		return nil, translate(err, "failed to list stock movements")
	}
	result := make([]domain.StockMovement, len(rows))
	for i, row := range rows {
		result[i] = mapping.ToDomainStockMovement(row)
	}
	return result, nil
}

type PgxFolioRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.FolioSequenceRepository = (*PgxFolioRepository)(nil)

// NextFolioSequence bumps the counter of the day. The upserted row stays
// locked until the transaction ends, so concurrent sales get distinct numbers.
func (r *PgxFolioRepository) NextFolioSequence(ctx context.Context, day time.Time) (int, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return 0, err
	}
	var next int
	err = tx.QueryRow(ctx, `
		INSERT INTO folio_sequences (day, last_value) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_value = folio_sequences.last_value + 1
		RETURNING last_value;
	`, day.UTC().Format("20060102")).Scan(&next)
	if err != nil {
		return 0, translate(err, "failed to allocate folio")
	}
	return next, nil
}
