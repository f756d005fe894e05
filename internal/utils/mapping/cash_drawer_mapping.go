package mapping

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/models"
)

func ToModelCashDrawer(d *domain.CashDrawer) models.CashDrawer {
	s := d.Snapshot()
	return models.CashDrawer{
		DrawerID:           s.DrawerID,
		Number:             s.Number,
		Name:               s.Name,
		SessionID:          s.SessionID,
		IsOpen:             s.IsOpen,
		OpeningFloat:       s.OpeningFloat,
		Balance:            s.Balance,
		TotalSales:         s.TotalSales,
		TotalCancellations: s.TotalCancellations,
		TotalWithdrawals:   s.TotalWithdrawals,
		TotalDeposits:      s.TotalDeposits,
		OpenedAt:           s.OpenedAt,
		OpenedBy:           s.OpenedBy,
		ClosedAt:           s.ClosedAt,
		ClosedBy:           s.ClosedBy,
		DeclaredBalance:    s.DeclaredBalance,
		Difference:         s.Difference,
		ClosingNotes:       s.ClosingNotes,
		CreatedAt:          s.CreatedAt,
		Version:            s.Version,
	}
}

// ToDomainCashDrawer rebuilds a drawer with the movements of its current session.
func ToDomainCashDrawer(m models.CashDrawer, movements []models.CashMovement) *domain.CashDrawer {
	snapshot := domain.CashDrawerSnapshot{
		DrawerID:        m.DrawerID,
		Number:          m.Number,
		Name:            m.Name,
		SessionID:       m.SessionID,
		IsOpen:          m.IsOpen,
		OpeningFloat:    m.OpeningFloat,
		Balance:         m.Balance,
		OpenedAt:        m.OpenedAt,
		OpenedBy:        m.OpenedBy,
		ClosedAt:        m.ClosedAt,
		ClosedBy:        m.ClosedBy,
		DeclaredBalance: m.DeclaredBalance,
		Difference:      m.Difference,
		ClosingNotes:    m.ClosingNotes,
		CreatedAt:       m.CreatedAt,
		Version:         m.Version,
	}
	for _, mv := range movements {
		snapshot.Movements = append(snapshot.Movements, ToDomainCashMovement(mv))
	}
	return domain.RestoreCashDrawer(snapshot)
}

func ToModelCashMovement(d domain.CashMovement) models.CashMovement {
	return models.CashMovement{
		MovementID: d.MovementID,
		DrawerID:   d.DrawerID,
		SessionID:  d.SessionID,
		Kind:       string(d.Kind),
		Amount:     d.Amount,
		Concept:    d.Concept,
		Reference:  d.Reference,
		UserID:     d.UserID,
		CreatedAt:  d.CreatedAt,
	}
}

func ToDomainCashMovement(m models.CashMovement) domain.CashMovement {
	return domain.CashMovement{
		MovementID: m.MovementID,
		DrawerID:   m.DrawerID,
		SessionID:  m.SessionID,
		Kind:       domain.CashMovementKind(m.Kind),
		Amount:     m.Amount,
		Concept:    m.Concept,
		Reference:  m.Reference,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
	}
}
