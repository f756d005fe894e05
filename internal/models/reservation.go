package models

import "time"

// Reservation is a row of the reservations table.
type Reservation struct {
	ReservationID string     `db:"reservation_id"`
	ProductID     string     `db:"product_id"`
	SaleID        string     `db:"sale_id"`
	Quantity      int        `db:"quantity"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	ExpiresAt     time.Time  `db:"expires_at"`
	ConfirmedAt   *time.Time `db:"confirmed_at"` // Nullable
	CancelledAt   *time.Time `db:"cancelled_at"` // Nullable
	CancelReason  string     `db:"cancel_reason"`
	UserID        string     `db:"user_id"`
	Version       int64      `db:"version"`
}
