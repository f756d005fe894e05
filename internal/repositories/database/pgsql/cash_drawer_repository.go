package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/models"
	"github.com/SscSPs/pos_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	cashDrawerColumns = `drawer_id, number, name, session_id, is_open, opening_float, balance,
	total_sales, total_cancellations, total_withdrawals, total_deposits, opened_at, opened_by,
	closed_at, closed_by, declared_balance, difference, closing_notes, created_at, version`
	cashMovementColumns = `movement_id, drawer_id, session_id, kind, amount, concept, reference, user_id, created_at`
)

type PgxCashDrawerRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.CashDrawerRepositoryFacade = (*PgxCashDrawerRepository)(nil)

func (r *PgxCashDrawerRepository) find(ctx context.Context, where string, args []any, notFound error) (*domain.CashDrawer, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	row, err := collectOne[models.CashDrawer](ctx, tx, `SELECT `+cashDrawerColumns+` FROM cash_drawers WHERE `+where, args...)
	if err != nil {
		return nil, notFoundOr(err, notFound, "failed to load cash drawer")
	}

	// only the current session is needed to rebuild the balance
	movements, err := collect[models.CashMovement](ctx, tx, `
		SELECT `+cashMovementColumns+` FROM cash_movements
		WHERE drawer_id = $1 AND session_id = $2
		ORDER BY seq;
	`, row.DrawerID, row.SessionID)
	if err != nil {
		return nil, translate(err, "failed to load cash movements")
	}

	drawer := mapping.ToDomainCashDrawer(row, movements)
	r.uow.Track(drawer)
	return drawer, nil
}

func (r *PgxCashDrawerRepository) FindCashDrawerByID(ctx context.Context, drawerID string) (*domain.CashDrawer, error) {
	return r.find(ctx, "drawer_id = $1", []any{drawerID},
		apperrors.Newf(apperrors.CodeDrawerNotFound, "cash drawer %s not found", drawerID))
}

func (r *PgxCashDrawerRepository) FindCashDrawerByNumber(ctx context.Context, number int) (*domain.CashDrawer, error) {
	return r.find(ctx, "number = $1", []any{number},
		apperrors.Newf(apperrors.CodeDrawerNotFound, "cash drawer number %d not found", number))
}

// FindOpenCashDrawer locks the open drawer so cash movements of concurrent
// sales are applied one after another.
func (r *PgxCashDrawerRepository) FindOpenCashDrawer(ctx context.Context) (*domain.CashDrawer, error) {
	return r.find(ctx, "is_open FOR UPDATE", nil,
		apperrors.New(apperrors.CodeDrawerNotFound, "no cash drawer is open"))
}

func (r *PgxCashDrawerRepository) ListCashMovements(ctx context.Context, drawerID string, limit int, after *portsrepo.PageCursor) ([]domain.CashMovement, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + cashMovementColumns + ` FROM cash_movements WHERE drawer_id = $1`
	args := []any{drawerID}
	if after != nil {
		query += ` AND (created_at, movement_id) < ($2, $3)`
		args = append(args, after.CreatedAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, movement_id DESC LIMIT %d`, pageLimit(limit))

	rows, err := collect[models.CashMovement](ctx, tx, query, args...)
	if err != nil {
		return nil, translate(err, "failed to list cash movements")
	}
	result := make([]domain.CashMovement, len(rows))
	for i, row := range rows {
		result[i] = mapping.ToDomainCashMovement(row)
	}
	return result, nil
}

func (r *PgxCashDrawerRepository) SaveCashDrawer(ctx context.Context, drawer *domain.CashDrawer) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	r.uow.Track(drawer)
	drawer.Version = 1
	m := mapping.ToModelCashDrawer(drawer)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO cash_drawers (`+cashDrawerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`, m.DrawerID, m.Number, m.Name, m.SessionID, m.IsOpen, m.OpeningFloat, m.Balance,
		m.TotalSales, m.TotalCancellations, m.TotalWithdrawals, m.TotalDeposits, m.OpenedAt, m.OpenedBy,
		m.ClosedAt, m.ClosedBy, m.DeclaredBalance, m.Difference, m.ClosingNotes, m.CreatedAt, m.Version)
	queueMovements(batch, drawer.PendingMovements())

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate(err, "failed to save cash drawer "+m.DrawerID)
	}
	drawer.MarkMovementsPersisted()
	return nil
}

func (r *PgxCashDrawerRepository) UpdateCashDrawer(ctx context.Context, drawer *domain.CashDrawer) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	m := mapping.ToModelCashDrawer(drawer)
	tag, err := tx.Exec(ctx, `
		UPDATE cash_drawers
		SET name = $3, session_id = $4, is_open = $5, opening_float = $6, balance = $7,
			total_sales = $8, total_cancellations = $9, total_withdrawals = $10, total_deposits = $11,
			opened_at = $12, opened_by = $13, closed_at = $14, closed_by = $15, declared_balance = $16,
			difference = $17, closing_notes = $18, version = version + 1
		WHERE drawer_id = $1 AND version = $2;
	`, m.DrawerID, m.Version, m.Name, m.SessionID, m.IsOpen, m.OpeningFloat, m.Balance,
		m.TotalSales, m.TotalCancellations, m.TotalWithdrawals, m.TotalDeposits,
		m.OpenedAt, m.OpenedBy, m.ClosedAt, m.ClosedBy, m.DeclaredBalance,
		m.Difference, m.ClosingNotes)
	if err != nil {
		return translate(err, "failed to update cash drawer "+m.DrawerID)
	}
	if err := checkAffected(tag, "cash drawer", m.DrawerID); err != nil {
		return err
	}

	if pending := drawer.PendingMovements(); len(pending) > 0 {
		batch := &pgx.Batch{}
		queueMovements(batch, pending)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translate(err, "failed to append cash movements of drawer "+m.DrawerID)
		}
	}

	r.uow.Track(drawer)
	drawer.Version++
	drawer.MarkMovementsPersisted()
	return nil
}

func queueMovements(batch *pgx.Batch, movements []domain.CashMovement) {
	for _, mv := range movements {
		m := mapping.ToModelCashMovement(mv)
		batch.Queue(`
			INSERT INTO cash_movements (`+cashMovementColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, m.MovementID, m.DrawerID, m.SessionID, m.Kind, m.Amount, m.Concept, m.Reference, m.UserID, m.CreatedAt)
	}
}
