package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
)

// StockMovementKind classifies a change of physical stock.
type StockMovementKind string

const (
	StockEntry       StockMovementKind = "ENTRY"
	StockSale        StockMovementKind = "SALE"
	StockReturn      StockMovementKind = "RETURN"
	StockAdjustment  StockMovementKind = "ADJUSTMENT"
	StockShrinkage   StockMovementKind = "SHRINKAGE"
	StockTransferOut StockMovementKind = "TRANSFER_OUT"
	StockTransferIn  StockMovementKind = "TRANSFER_IN"
)

// IsValid reports whether k is a known kind.
func (k StockMovementKind) IsValid() bool {
	switch k {
	case StockEntry, StockSale, StockReturn, StockAdjustment, StockShrinkage, StockTransferOut, StockTransferIn:
		return true
	}
	return false
}

func (k StockMovementKind) outbound() bool {
	return k == StockSale || k == StockShrinkage || k == StockTransferOut
}

func (k StockMovementKind) inbound() bool {
	return k == StockEntry || k == StockReturn || k == StockTransferIn
}

// StockMovement is the audit record of one change of physical stock.
type StockMovement struct {
	MovementID  string            `json:"movementID"`
	ProductID   string            `json:"productID"`
	Kind        StockMovementKind `json:"kind"`
	Quantity    int               `json:"quantity"`
	StockBefore int               `json:"stockBefore"`
	StockAfter  int               `json:"stockAfter"`
	Concept     string            `json:"concept"`
	UserID      string            `json:"userID"`
	SaleID      string            `json:"saleID,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewStockMovementParams groups the inputs of NewStockMovement.
type NewStockMovementParams struct {
	ProductID   string
	Kind        StockMovementKind
	Quantity    int
	StockBefore int
	StockAfter  int
	Concept     string
	UserID      string
	SaleID      string
	Reference   string
	At          time.Time
}

// NewStockMovement validates a movement. Outbound kinds are stored negative;
// inbound kinds must be positive. The recorded before and after figures must
// differ by exactly the quantity.
func NewStockMovement(p NewStockMovementParams) (StockMovement, error) {
	if p.ProductID == "" {
		return StockMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "product id is required")
	}
	if !p.Kind.IsValid() {
		return StockMovement{}, apperrors.Newf(apperrors.CodeInvalidArgument, "unknown stock movement kind %q", p.Kind)
	}
	qty := p.Quantity
	if qty == 0 {
		return StockMovement{}, apperrors.New(apperrors.CodeInvalidQuantity, "movement quantity cannot be zero")
	}
	switch {
	case p.Kind.outbound() && qty > 0:
		qty = -qty
	case p.Kind.inbound() && qty < 0:
		return StockMovement{}, apperrors.Newf(apperrors.CodeInvalidQuantity, "%s movements must be positive", strings.ToLower(string(p.Kind)))
	}
	if p.StockBefore < 0 || p.StockAfter < 0 {
		return StockMovement{}, apperrors.New(apperrors.CodeInvalidQuantity, "stock figures cannot be negative")
	}
	if p.StockAfter-p.StockBefore != qty {
		return StockMovement{}, apperrors.Newf(apperrors.CodeInvalidQuantity, "stock went from %d to %d, which does not match quantity %d", p.StockBefore, p.StockAfter, qty)
	}
	concept := strings.TrimSpace(p.Concept)
	if concept == "" {
		return StockMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "movement concept is required")
	}
	if len(concept) > MaxConceptLength {
		return StockMovement{}, apperrors.Newf(apperrors.CodeInvalidArgument, "movement concept cannot exceed %d characters", MaxConceptLength)
	}
	if p.UserID == "" {
		return StockMovement{}, apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	at := p.At
	if at.IsZero() {
		at = now()
	}
	return StockMovement{
		MovementID:  uuid.NewString(),
		ProductID:   p.ProductID,
		Kind:        p.Kind,
		Quantity:    qty,
		StockBefore: p.StockBefore,
		StockAfter:  p.StockAfter,
		Concept:     concept,
		UserID:      p.UserID,
		SaleID:      p.SaleID,
		Reference:   strings.TrimSpace(p.Reference),
		CreatedAt:   at.UTC(),
	}, nil
}
