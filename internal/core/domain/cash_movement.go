package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovementKind classifies an entry of the cash drawer ledger.
type CashMovementKind string

const (
	CashOpen             CashMovementKind = "OPEN"
	CashSale             CashMovementKind = "SALE"
	CashSaleCancellation CashMovementKind = "SALE_CANCELLATION"
	CashWithdrawal       CashMovementKind = "WITHDRAWAL"
	CashDeposit          CashMovementKind = "DEPOSIT"
	CashClose            CashMovementKind = "CLOSE"
	CashAdjustment       CashMovementKind = "ADJUSTMENT"
)

// IsValid reports whether k is a known kind.
func (k CashMovementKind) IsValid() bool {
	switch k {
	case CashOpen, CashSale, CashSaleCancellation, CashWithdrawal, CashDeposit, CashClose, CashAdjustment:
		return true
	}
	return false
}

// CashMovement is an immutable ledger entry of a cash drawer session.
type CashMovement struct {
	MovementID string           `json:"movementID"`
	DrawerID   string           `json:"drawerID"`
	SessionID  string           `json:"sessionID"`
	Kind       CashMovementKind `json:"kind"`
	Amount     decimal.Decimal  `json:"amount"`
	Concept    string           `json:"concept"`
	Reference  string           `json:"reference,omitempty"`
	UserID     string           `json:"userID"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// NewCashMovement validates a movement and forces the sign its kind requires.
// Cancellations and withdrawals are always outflows; sales, deposits and
// openings are always inflows.
func NewCashMovement(drawerID, sessionID string, kind CashMovementKind, amount decimal.Decimal, concept, userID, reference string, at time.Time) (CashMovement, error) {
	if drawerID == "" {
		return CashMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "drawer id is required")
	}
	if !kind.IsValid() {
		return CashMovement{}, apperrors.Newf(apperrors.CodeInvalidArgument, "unknown cash movement kind %q", kind)
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return CashMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "movement concept is required")
	}
	if len(concept) > MaxConceptLength {
		return CashMovement{}, apperrors.Newf(apperrors.CodeInvalidArgument, "movement concept cannot exceed %d characters", MaxConceptLength)
	}
	if userID == "" {
		return CashMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}

	switch kind {
	case CashSaleCancellation, CashWithdrawal:
		amount = amount.Abs().Neg()
	case CashSale, CashDeposit, CashOpen:
		amount = amount.Abs()
	}

	return CashMovement{
		MovementID: uuid.NewString(),
		DrawerID:   drawerID,
		SessionID:  sessionID,
		Kind:       kind,
		Amount:     amount,
		Concept:    concept,
		Reference:  strings.TrimSpace(reference),
		UserID:     userID,
		CreatedAt:  at.UTC(),
	}, nil
}

// IsInflow reports whether the movement adds cash.
func (m CashMovement) IsInflow() bool {
	return m.Amount.IsPositive()
}
