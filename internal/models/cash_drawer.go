package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashDrawer is a row of the cash_drawers table. The ledger of the current
// session is stored in cash_movements.
type CashDrawer struct {
	DrawerID           string           `db:"drawer_id"`
	Number             int              `db:"number"` // Unique register number
	Name               string           `db:"name"`
	SessionID          string           `db:"session_id"`
	IsOpen             bool             `db:"is_open"` // At most one row may be open
	OpeningFloat       decimal.Decimal  `db:"opening_float"`
	Balance            decimal.Decimal  `db:"balance"`
	TotalSales         decimal.Decimal  `db:"total_sales"`
	TotalCancellations decimal.Decimal  `db:"total_cancellations"`
	TotalWithdrawals   decimal.Decimal  `db:"total_withdrawals"`
	TotalDeposits      decimal.Decimal  `db:"total_deposits"`
	OpenedAt           *time.Time       `db:"opened_at"` // Nullable
	OpenedBy           string           `db:"opened_by"`
	ClosedAt           *time.Time       `db:"closed_at"` // Nullable
	ClosedBy           string           `db:"closed_by"`
	DeclaredBalance    *decimal.Decimal `db:"declared_balance"` // Nullable
	Difference         *decimal.Decimal `db:"difference"`       // Nullable
	ClosingNotes       string           `db:"closing_notes"`
	CreatedAt          time.Time        `db:"created_at"`
	Version            int64            `db:"version"`
}

// CashMovement is a row of the append-only cash_movements table.
type CashMovement struct {
	MovementID string          `db:"movement_id"`
	DrawerID   string          `db:"drawer_id"`
	SessionID  string          `db:"session_id"`
	Kind       string          `db:"kind"`
	Amount     decimal.Decimal `db:"amount"`
	Concept    string          `db:"concept"`
	Reference  string          `db:"reference"`
	UserID     string          `db:"user_id"`
	CreatedAt  time.Time       `db:"created_at"`
}
