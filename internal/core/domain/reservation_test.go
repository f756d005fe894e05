package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservedAt = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newReservation(t *testing.T, qty int) *domain.Reservation {
	t.Helper()
	r, err := domain.NewReservation("prod-1", "sale-1", qty, domain.DefaultReservationMinutes, "user-1", reservedAt)
	require.NoError(t, err)
	return r
}

func TestReservation_ExpiryReleasesStock(t *testing.T) {
	inv := newInventory(t, 10)
	require.NoError(t, inv.Reserve(3))
	r := newReservation(t, 3)

	later := reservedAt.Add(16 * time.Minute)
	assert.True(t, r.IsExpired(later))
	assert.True(t, apperrors.IsCode(r.Confirm(later), apperrors.CodeReservationExpired))

	require.NoError(t, r.Expire(later))
	require.NoError(t, inv.Release(r.Quantity))

	assert.Equal(t, domain.ReservationExpired, r.Status)
	assert.Equal(t, "reservation expired automatically by timeout", r.CancelReason)
	assert.Equal(t, 10, inv.Available())
	assert.False(t, r.IsExpired(later), "only active reservations report expiry")
}

func TestReservation_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		op         func(r *domain.Reservation) error
		wantCode   apperrors.Code
		wantStatus domain.ReservationStatus
	}{
		{
			name:       "confirm before expiry",
			op:         func(r *domain.Reservation) error { return r.Confirm(reservedAt.Add(time.Minute)) },
			wantStatus: domain.ReservationConfirmed,
		},
		{
			name:       "expire before time",
			op:         func(r *domain.Reservation) error { return r.Expire(reservedAt.Add(time.Minute)) },
			wantCode:   apperrors.CodeInvalidReservationState,
			wantStatus: domain.ReservationActive,
		},
		{
			name:       "cancel requires reason",
			op:         func(r *domain.Reservation) error { return r.Cancel("", reservedAt) },
			wantCode:   apperrors.CodeReasonRequired,
			wantStatus: domain.ReservationActive,
		},
		{
			name:       "cancel with reason",
			op:         func(r *domain.Reservation) error { return r.Cancel("item removed", reservedAt) },
			wantStatus: domain.ReservationCancelled,
		},
		{
			name: "confirmed cannot be cancelled",
			op: func(r *domain.Reservation) error {
				if err := r.Confirm(reservedAt); err != nil {
					return err
				}
				return r.Cancel("late", reservedAt)
			},
			wantCode:   apperrors.CodeInvalidReservationState,
			wantStatus: domain.ReservationConfirmed,
		},
		{
			name:       "extension out of range",
			op:         func(r *domain.Reservation) error { return r.ExtendExpiration(61) },
			wantCode:   apperrors.CodeInvalidArgument,
			wantStatus: domain.ReservationActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReservation(t, 1)
			err := tt.op(r)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			}
			assert.Equal(t, tt.wantStatus, r.Status)
		})
	}
}

func TestReservation_ExtendExpiration(t *testing.T) {
	r := newReservation(t, 1)
	require.NoError(t, r.ExtendExpiration(10))

	assert.Equal(t, reservedAt.Add(25*time.Minute), r.ExpiresAt)
	assert.False(t, r.IsExpired(reservedAt.Add(20*time.Minute)))
}

func TestNewReservation_Validation(t *testing.T) {
	_, err := domain.NewReservation("prod-1", "sale-1", 0, 15, "user-1", reservedAt)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidQuantity))

	_, err = domain.NewReservation("prod-1", "sale-1", 1, 0, "user-1", reservedAt)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))

	_, err = domain.NewReservation("", "sale-1", 1, 15, "user-1", reservedAt)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
}
