package dto

import (
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenDrawerRequest opens a cash drawer.
type OpenDrawerRequest struct {
	Number       int             `json:"number" binding:"required,min=1"`
	OpeningFloat decimal.Decimal `json:"openingFloat"`
}

// CloseDrawerRequest closes the open drawer.
type CloseDrawerRequest struct {
	DeclaredBalance decimal.Decimal `json:"declaredBalance"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// CashMovementRequest is a manual withdrawal or deposit.
type CashMovementRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"required,max=500"`
}

// CashMovementResponse defines the data returned for a cash movement.
type CashMovementResponse struct {
	MovementID string                  `json:"movementID"`
	Kind       domain.CashMovementKind `json:"kind"`
	Amount     decimal.Decimal         `json:"amount"`
	Concept    string                  `json:"concept"`
	Reference  string                  `json:"reference,omitempty"`
	UserID     string                  `json:"userID"`
	CreatedAt  time.Time               `json:"createdAt"`
}

// CashDrawerResponse defines the data returned for a drawer.
type CashDrawerResponse struct {
	DrawerID           string           `json:"drawerID"`
	Number             int              `json:"number"`
	Name               string           `json:"name"`
	IsOpen             bool             `json:"isOpen"`
	OpeningFloat       decimal.Decimal  `json:"openingFloat"`
	Balance            decimal.Decimal  `json:"balance"`
	CalculatedBalance  decimal.Decimal  `json:"calculatedBalance"`
	TotalSales         decimal.Decimal  `json:"totalSales"`
	TotalCancellations decimal.Decimal  `json:"totalCancellations"`
	TotalWithdrawals   decimal.Decimal  `json:"totalWithdrawals"`
	TotalDeposits      decimal.Decimal  `json:"totalDeposits"`
	OpenedAt           *time.Time       `json:"openedAt,omitempty"`
	ClosedAt           *time.Time       `json:"closedAt,omitempty"`
	DeclaredBalance    *decimal.Decimal `json:"declaredBalance,omitempty"`
	Difference         *decimal.Decimal `json:"difference,omitempty"`
}

// ListCashMovementsResponse is a page of cash movements.
type ListCashMovementsResponse struct {
	Movements []CashMovementResponse `json:"movements"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToCashDrawerResponse converts a domain.CashDrawer to CashDrawerResponse DTO.
func ToCashDrawerResponse(d *domain.CashDrawer) CashDrawerResponse {
	s := d.Snapshot()
	return CashDrawerResponse{
		DrawerID:           s.DrawerID,
		Number:             s.Number,
		Name:               s.Name,
		IsOpen:             s.IsOpen,
		OpeningFloat:       s.OpeningFloat,
		Balance:            s.Balance,
		CalculatedBalance:  s.CalculatedBalance,
		TotalSales:         s.TotalSales,
		TotalCancellations: s.TotalCancellations,
		TotalWithdrawals:   s.TotalWithdrawals,
		TotalDeposits:      s.TotalDeposits,
		OpenedAt:           s.OpenedAt,
		ClosedAt:           s.ClosedAt,
		DeclaredBalance:    s.DeclaredBalance,
		Difference:         s.Difference,
	}
}

// ToCashMovementResponses converts a slice of cash movements.
func ToCashMovementResponses(movements []domain.CashMovement) []CashMovementResponse {
	responses := make([]CashMovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = CashMovementResponse{
			MovementID: m.MovementID,
			Kind:       m.Kind,
			Amount:     m.Amount,
			Concept:    m.Concept,
			Reference:  m.Reference,
			UserID:     m.UserID,
			CreatedAt:  m.CreatedAt,
		}
	}
	return responses
}
