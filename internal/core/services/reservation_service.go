package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/metrics"
)

// expiryBatchSize bounds how many reservations one sweep picks up.
const expiryBatchSize = 500

// reservationService implements the ReservationSvcFacade interface
type reservationService struct {
	BaseService
}

// NewReservationService creates the service behind the reservation sweeps.
func NewReservationService(factory portsrepo.UnitOfWorkFactory, options ...ServiceOption) portssvc.ReservationSvcFacade {
	return &reservationService{
		BaseService: newBaseService(factory, buildOptions(options)),
	}
}

// Ensure reservationService implements the ReservationSvcFacade interface
var _ portssvc.ReservationSvcFacade = (*reservationService)(nil)

// ExpireReservations releases the stock held by reservations that ran out.
// Each reservation is expired in its own short transaction so that one
// failure, or a reservation confirmed in the meantime, does not hold back
// the rest of the batch.
func (s *reservationService) ExpireReservations(ctx context.Context, at time.Time) (int, error) {
	var expired []*domain.Reservation
	err := s.withTransaction(ctx, "reservation.list_expired", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Reservations().ListExpiredReservations(ctx, at, expiryBatchSize)
		expired = found
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list expired reservations")
		return 0, err
	}

	count := 0
	for _, candidate := range expired {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		released, err := s.expireOne(ctx, candidate.ReservationID, at)
		if err != nil {
			s.logFailure(ctx, err, "Failed to expire reservation",
				slog.String("reservation_id", candidate.ReservationID),
				slog.String("sale_id", candidate.SaleID))
			continue
		}
		if released {
			count++
		}
	}

	if count > 0 {
		metrics.ReservationsExpired.Add(float64(count))
		s.LogInfo(ctx, "Expired reservations released",
			slog.Int("count", count),
			slog.Int("candidates", len(expired)))
	}
	return count, nil
}

// expireOne reloads the reservation under lock and expires it if it is still
// active and past due.
func (s *reservationService) expireOne(ctx context.Context, reservationID string, at time.Time) (bool, error) {
	released := false
	err := s.withTransaction(ctx, "reservation.expire", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		released = false
		reservation, err := uow.Reservations().FindReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if !reservation.IsExpired(at) {
			return nil
		}
		inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, reservation.ProductID)
		if err != nil {
			return err
		}
		if err := reservation.Expire(at); err != nil {
			return err
		}
		if err := inventory.Release(reservation.Quantity); err != nil {
			return err
		}
		if err := uow.Inventories().UpdateInventory(ctx, inventory); err != nil {
			return err
		}
		if err := uow.Reservations().UpdateReservation(ctx, reservation); err != nil {
			return err
		}
		released = true
		return nil
	})
	return released, err
}

// PurgeReservations deletes reservations that reached a final state before cutoff.
func (s *reservationService) PurgeReservations(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.withTransaction(ctx, "reservation.purge", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		n, err := uow.Reservations().DeleteTerminalReservationsBefore(ctx, cutoff)
		deleted = n
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to purge reservations", slog.Time("cutoff", cutoff))
		return 0, err
	}
	s.LogInfo(ctx, "Old reservations purged",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))
	return deleted, nil
}

func (s *reservationService) ExtendReservation(ctx context.Context, reservationID string, minutes int) (*domain.Reservation, error) {
	var reservation *domain.Reservation
	err := s.withTransaction(ctx, "reservation.extend", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Reservations().FindReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := found.ExtendExpiration(minutes); err != nil {
			return err
		}
		if err := uow.Reservations().UpdateReservation(ctx, found); err != nil {
			return err
		}
		reservation = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to extend reservation", slog.String("reservation_id", reservationID))
		return nil, err
	}
	return reservation, nil
}
