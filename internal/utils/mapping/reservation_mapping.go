package mapping

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/models"
)

func ToModelReservation(d *domain.Reservation) models.Reservation {
	return models.Reservation{
		ReservationID: d.ReservationID,
		ProductID:     d.ProductID,
		SaleID:        d.SaleID,
		Quantity:      d.Quantity,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		ExpiresAt:     d.ExpiresAt,
		ConfirmedAt:   d.ConfirmedAt,
		CancelledAt:   d.CancelledAt,
		CancelReason:  d.CancelReason,
		UserID:        d.UserID,
		Version:       d.Version,
	}
}

func ToDomainReservation(m models.Reservation) *domain.Reservation {
	return &domain.Reservation{
		ReservationID: m.ReservationID,
		ProductID:     m.ProductID,
		SaleID:        m.SaleID,
		Quantity:      m.Quantity,
		Status:        domain.ReservationStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		ExpiresAt:     m.ExpiresAt,
		ConfirmedAt:   m.ConfirmedAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		UserID:        m.UserID,
		Version:       m.Version,
	}
}
