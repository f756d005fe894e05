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
)

const reservationColumns = `reservation_id, product_id, sale_id, quantity, status, created_at, expires_at,
	confirmed_at, cancelled_at, cancel_reason, user_id, version`

type PgxReservationRepository struct {
	uow *UnitOfWork
}

var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

func (r *PgxReservationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Reservation, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	rows, err := collect[models.Reservation](ctx, tx, query, args...)
	if err != nil {
		return nil, translate(err, "failed to list reservations")
	}
	result := make([]*domain.Reservation, len(rows))
	for i, row := range rows {
		result[i] = mapping.ToDomainReservation(row)
		r.uow.Track(result[i])
	}
	return result, nil
}

func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return nil, err
	}
	row, err := collectOne[models.Reservation](ctx, tx,
		`SELECT `+reservationColumns+` FROM reservations WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return nil, notFoundOr(err,
			apperrors.Newf(apperrors.CodeReservationNotFound, "reservation %s not found", reservationID),
			"failed to load reservation")
	}
	res := mapping.ToDomainReservation(row)
	r.uow.Track(res)
	return res, nil
}

func (r *PgxReservationRepository) ListActiveReservationsBySale(ctx context.Context, saleID string) ([]*domain.Reservation, error) {
	return r.list(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE sale_id = $1 AND status = $2
		ORDER BY created_at, reservation_id;
	`, saleID, string(domain.ReservationActive))
}

func (r *PgxReservationRepository) ListExpiredReservations(ctx context.Context, at time.Time, limit int) ([]*domain.Reservation, error) {
	return r.list(ctx, fmt.Sprintf(`
		SELECT %s FROM reservations
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at, reservation_id
		LIMIT %d;
	`, reservationColumns, pageLimit(limit)), string(domain.ReservationActive), at)
}

func (r *PgxReservationRepository) SaveReservation(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	r.uow.Track(reservation)
	reservation.Version = 1
	m := mapping.ToModelReservation(reservation)
	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`, m.ReservationID, m.ProductID, m.SaleID, m.Quantity, m.Status, m.CreatedAt, m.ExpiresAt,
		m.ConfirmedAt, m.CancelledAt, m.CancelReason, m.UserID, m.Version)
	if err != nil {
		return translate(err, "failed to save reservation "+m.ReservationID)
	}
	return nil
}

func (r *PgxReservationRepository) UpdateReservation(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.uow.conn()
	if err != nil {
		return err
	}
	m := mapping.ToModelReservation(reservation)
	tag, err := tx.Exec(ctx, `
		UPDATE reservations
		SET quantity = $3, status = $4, expires_at = $5, confirmed_at = $6, cancelled_at = $7,
			cancel_reason = $8, version = version + 1
		WHERE reservation_id = $1 AND version = $2;
	`, m.ReservationID, m.Version, m.Quantity, m.Status, m.ExpiresAt, m.ConfirmedAt, m.CancelledAt, m.CancelReason)
	if err != nil {
		return translate(err, "failed to update reservation "+m.ReservationID)
	}
	if err := checkAffected(tag, "reservation", m.ReservationID); err != nil {
		return err
	}
	r.uow.Track(reservation)
	reservation.Version++
	return nil
}

func (r *PgxReservationRepository) DeleteTerminalReservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.uow.conn()
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM reservations WHERE status <> $1 AND created_at < $2;`,
		string(domain.ReservationActive), cutoff)
	if err != nil {
		return 0, translate(err, "failed to purge reservations")
	}
	return tag.RowsAffected(), nil
}
