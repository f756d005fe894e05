package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a Reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

const (
	DefaultReservationMinutes = 15
	MinReservationMinutes     = 1
	MaxReservationMinutes     = 60
	expiredReason             = "reservation expired automatically by timeout"
)

// Reservation is a time-boxed hold on stock for an in-progress sale.
type Reservation struct {
	ReservationID string            `json:"reservationID"`
	ProductID     string            `json:"productID"`
	SaleID        string            `json:"saleID"`
	Quantity      int               `json:"quantity"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	ExpiresAt     time.Time         `json:"expiresAt"`
	ConfirmedAt   *time.Time        `json:"confirmedAt,omitempty"`
	CancelledAt   *time.Time        `json:"cancelledAt,omitempty"`
	CancelReason  string            `json:"cancelReason,omitempty"`
	UserID        string            `json:"userID"`
	Version       int64             `json:"version"`
}

// NewReservation creates an active reservation expiring minutes after createdAt.
func NewReservation(productID, saleID string, qty, minutes int, userID string, createdAt time.Time) (*Reservation, error) {
	if productID == "" || saleID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "product id and sale id are required")
	}
	if err := ValidateQuantity(qty); err != nil {
		return nil, err
	}
	if err := validateReservationMinutes(minutes); err != nil {
		return nil, err
	}
	createdAt = createdAt.UTC()
	return &Reservation{
		ReservationID: uuid.NewString(),
		ProductID:     productID,
		SaleID:        saleID,
		Quantity:      qty,
		Status:        ReservationActive,
		CreatedAt:     createdAt,
		ExpiresAt:     createdAt.Add(time.Duration(minutes) * time.Minute),
		UserID:        userID,
	}, nil
}

// IsExpired is true once an active reservation is past its expiry time.
func (r *Reservation) IsExpired(at time.Time) bool {
	return r.Status == ReservationActive && at.After(r.ExpiresAt)
}

// IsActive reports whether the reservation still holds stock.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationActive
}

// Confirm marks the held quantity as sold.
func (r *Reservation) Confirm(at time.Time) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	if r.IsExpired(at) {
		return apperrors.Newf(apperrors.CodeReservationExpired, "reservation %s expired at %s", r.ReservationID, r.ExpiresAt.Format(time.RFC3339))
	}
	at = at.UTC()
	r.Status = ReservationConfirmed
	r.ConfirmedAt = &at
	return nil
}

// Cancel releases the hold by hand.
func (r *Reservation) Cancel(reason string, at time.Time) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	if blank(reason) {
		return apperrors.New(apperrors.CodeReasonRequired, "a cancellation reason is required")
	}
	at = at.UTC()
	r.Status = ReservationCancelled
	r.CancelledAt = &at
	r.CancelReason = strings.TrimSpace(reason)
	return nil
}

// Expire closes a reservation whose time ran out.
func (r *Reservation) Expire(at time.Time) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	if !r.IsExpired(at) {
		return apperrors.Newf(apperrors.CodeInvalidReservationState, "reservation %s has not expired yet", r.ReservationID)
	}
	at = at.UTC()
	r.Status = ReservationExpired
	r.CancelledAt = &at
	r.CancelReason = expiredReason
	return nil
}

// ExtendExpiration pushes the expiry forward by minutes.
func (r *Reservation) ExtendExpiration(minutes int) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	if err := validateReservationMinutes(minutes); err != nil {
		return err
	}
	r.ExpiresAt = r.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	return nil
}

// Checkpoint snapshots the reservation and returns a function restoring it.
func (r *Reservation) Checkpoint() func() {
	saved := *r
	return func() { *r = saved }
}

func (r *Reservation) requireActive() error {
	if r.Status != ReservationActive {
		return apperrors.Newf(apperrors.CodeInvalidReservationState, "reservation %s is %s", r.ReservationID, r.Status)
	}
	return nil
}

func validateReservationMinutes(minutes int) error {
	if minutes < MinReservationMinutes || minutes > MaxReservationMinutes {
		return apperrors.Newf(apperrors.CodeInvalidArgument, "reservation minutes must be between %d and %d", MinReservationMinutes, MaxReservationMinutes)
	}
	return nil
}
