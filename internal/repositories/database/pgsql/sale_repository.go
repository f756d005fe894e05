package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/models"
	"github.com/SscSPs/pos_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	saleColumns = `sale_id, folio, user_id, status, tax_rate, subtotal, tax, total, amount_paid, change_due, item_count,
	created_at, updated_at, paid_at, finalized_at, cancelled_at, cancel_reason, cancelled_by, reversed, version`
	saleItemColumns    = `line_item_id, sale_id, position, product_id, product_name, barcode, unit_price, taxed, tax_rate, quantity`
	salePaymentColumns = `payment_id, sale_id, position, amount, method, reference, change_due, paid_at`
)

type PgxSaleRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

func (r *PgxSaleRepository) findOne(ctx context.Context, where string, arg any, notFound error) (*domain.Sale, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	header, err := collectOne[models.Sale](ctx, tx, `SELECT `+saleColumns+` FROM sales WHERE `+where, arg)
	if err != nil {
		return nil, notFoundOr(err, notFound, "failed to load sale")
	}
	sales, err := r.hydrate(ctx, tx, []models.Sale{header})
	if err != nil {
		return nil, err
	}
	return sales[0], nil
}

// hydrate loads the items and payments of the given headers in two queries
// and rebuilds the aggregates in header order.
func (r *PgxSaleRepository) hydrate(ctx context.Context, tx pgx.Tx, headers []models.Sale) ([]*domain.Sale, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.SaleID
	}

	items, err := collect[models.SaleItem](ctx, tx,
		`SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`, ids)
	if err != nil {
		return nil, translate(err, "failed to load sale items")
	}
	payments, err := collect[models.SalePayment](ctx, tx,
		`SELECT `+salePaymentColumns+` FROM sale_payments WHERE sale_id = ANY($1) ORDER BY sale_id, position`, ids)
	if err != nil {
		return nil, translate(err, "failed to load sale payments")
	}

	itemsBySale := make(map[string][]models.SaleItem, len(headers))
	for _, it := range items {
		itemsBySale[it.SaleID] = append(itemsBySale[it.SaleID], it)
	}
	paymentsBySale := make(map[string][]models.SalePayment, len(headers))
	for _, p := range payments {
		paymentsBySale[p.SaleID] = append(paymentsBySale[p.SaleID], p)
	}

	result := make([]*domain.Sale, len(headers))
	for i, h := range headers {
		sale, err := mapping.ToDomainSale(h, itemsBySale[h.SaleID], paymentsBySale[h.SaleID])
		if err != nil {
			return nil, fmt.Errorf("failed to restore sale %s: %w", h.SaleID, err)
		}
		r.uow.Track(sale)
		result[i] = sale
	}
	return result, nil
}

func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	return r.findOne(ctx, "sale_id = $1", saleID,
		apperrors.Newf(apperrors.CodeSaleNotFound, "sale %s not found", saleID))
}

func (r *PgxSaleRepository) FindSaleByFolio(ctx context.Context, folio string) (*domain.Sale, error) {
	return r.findOne(ctx, "folio = $1", folio,
		apperrors.Newf(apperrors.CodeSaleNotFound, "sale with folio %s not found", folio))
}

// ListSalesByDate pages through the sales of one UTC day, newest first.
func (r *PgxSaleRepository) ListSalesByDate(ctx context.Context, day time.Time, limit int, after *portsrepo.PageCursor) ([]*domain.Sale, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	query := `SELECT ` + saleColumns + ` FROM sales WHERE created_at >= $1 AND created_at < $2`
	args := []any{start, start.AddDate(0, 0, 1)}
	if after != nil {
		query += ` AND (created_at, sale_id) < ($3, $4)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, sale_id DESC LIMIT %d`, pageLimit(limit))

	headers, err := collect[models.Sale](ctx, tx, query, args...)
	if err != nil {
		return nil, translate(err, "failed to list sales")
	}
	return r.hydrate(ctx, tx, headers)
}

// SaveSale inserts the header and children of a new sale in one batch.
func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	r.uow.Track(sale)
	sale.Version = 1
	h, items, payments := mapping.ToModelSale(sale)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`, h.SaleID, h.Folio, h.UserID, h.Status, h.TaxRate, h.Subtotal, h.Tax, h.Total, h.AmountPaid, h.Change, h.ItemCount,
		h.CreatedAt, h.UpdatedAt, h.PaidAt, h.FinalizedAt, h.CancelledAt, h.CancelReason, h.CancelledBy, h.Reversed, h.Version)
	queueChildren(batch, items, payments)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate(err, "failed to save sale "+h.SaleID)
	}
	return nil
}

// UpdateSale stores the header with a version check and rewrites the children.
func (r *PgxSaleRepository) UpdateSale(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	h, items, payments := mapping.ToModelSale(sale)

	tag, err := tx.Exec(ctx, `
		UPDATE sales
		SET status = $3, tax_rate = $4, subtotal = $5, tax = $6, total = $7, amount_paid = $8, change_due = $9,
			item_count = $10, updated_at = $11, paid_at = $12, finalized_at = $13, cancelled_at = $14,
			cancel_reason = $15, cancelled_by = $16, reversed = $17, version = version + 1
		WHERE sale_id = $1 AND version = $2;
	`, h.SaleID, h.Version, h.Status, h.TaxRate, h.Subtotal, h.Tax, h.Total, h.AmountPaid, h.Change,
		h.ItemCount, h.UpdatedAt, h.PaidAt, h.FinalizedAt, h.CancelledAt, h.CancelReason, h.CancelledBy, h.Reversed)
	if err != nil {
		return translate(err, "failed to update sale "+h.SaleID)
	}
	if err := checkAffected(tag, "sale", h.SaleID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM sale_items WHERE sale_id = $1`, h.SaleID)
	batch.Queue(`DELETE FROM sale_payments WHERE sale_id = $1`, h.SaleID)
	queueChildren(batch, items, payments)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate(err, "failed to store lines of sale "+h.SaleID)
	}

	r.uow.Track(sale)
	sale.Version++
	return nil
}

func queueChildren(batch *pgx.Batch, items []models.SaleItem, payments []models.SalePayment) {
	for _, it := range items {
		batch.Queue(`
			INSERT INTO sale_items (`+saleItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`, it.LineItemID, it.SaleID, it.Position, it.ProductID, it.ProductName, it.Barcode, it.UnitPrice, it.Taxed, it.TaxRate, it.Quantity)
	}
	for _, p := range payments {
		batch.Queue(`
			INSERT INTO sale_payments (`+salePaymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, p.PaymentID, p.SaleID, p.Position, p.Amount, p.Method, p.Reference, p.Change, p.PaidAt)
	}
}
