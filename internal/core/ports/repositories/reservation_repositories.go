package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// ReservationReader defines read operations for stock reservations
type ReservationReader interface {
	// FindReservationByID retrieves a reservation by its unique identifier.
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListActiveReservationsBySale returns the active reservations of a sale.
	ListActiveReservationsBySale(ctx context.Context, saleID string) ([]*domain.Reservation, error)

	// ListExpiredReservations returns active reservations whose expiry is before at.
	ListExpiredReservations(ctx context.Context, at time.Time, limit int) ([]*domain.Reservation, error)
}

// ReservationWriter defines write operations for stock reservations
type ReservationWriter interface {
	// SaveReservation persists a new reservation.
	SaveReservation(ctx context.Context, reservation *domain.Reservation) error

	// UpdateReservation stores changes, checking the reservation version.
	UpdateReservation(ctx context.Context, reservation *domain.Reservation) error

	// DeleteTerminalReservationsBefore removes confirmed, cancelled and expired
	// reservations created before the cutoff and returns how many were removed.
	DeleteTerminalReservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReservationRepositoryFacade combines all reservation-related repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}
