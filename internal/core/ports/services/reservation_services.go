package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// ReservationSvcFacade defines the maintenance operations on stock reservations.
type ReservationSvcFacade interface {
	// ExpireReservations releases the stock of every active reservation past
	// its expiry and returns how many were expired.
	ExpireReservations(ctx context.Context, at time.Time) (int, error)

	// PurgeReservations deletes terminal reservations created before the cutoff.
	PurgeReservations(ctx context.Context, cutoff time.Time) (int64, error)

	// ExtendReservation pushes the expiry of an active reservation forward.
	ExtendReservation(ctx context.Context, reservationID string, minutes int) (*domain.Reservation, error)
}
