package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxDrawerNameLength = 100

// CashDrawer is a cash register and the ledger of its current session. Every
// Open starts a new session; the ledger only holds that session's movements.
//
// The opening float is recorded as an OPEN movement for the audit trail but is
// counted once, through OpeningFloat, in the calculated balance.
type CashDrawer struct {
	DrawerID string
	Number   int
	Name     string
	Version  int64

	sessionID       string
	isOpen          bool
	openingFloat    decimal.Decimal
	balance         decimal.Decimal
	openedAt        *time.Time
	openedBy        string
	closedAt        *time.Time
	closedBy        string
	declaredBalance *decimal.Decimal
	difference      *decimal.Decimal
	closingNotes    string
	createdAt       time.Time
	movements       []CashMovement
	persisted       int
}

// CashDrawerSnapshot is the flat, exported form of a CashDrawer.
type CashDrawerSnapshot struct {
	DrawerID           string           `json:"drawerID"`
	Number             int              `json:"number"`
	Name               string           `json:"name"`
	SessionID          string           `json:"sessionID"`
	IsOpen             bool             `json:"isOpen"`
	OpeningFloat       decimal.Decimal  `json:"openingFloat"`
	Balance            decimal.Decimal  `json:"balance"`
	CalculatedBalance  decimal.Decimal  `json:"calculatedBalance"`
	TotalSales         decimal.Decimal  `json:"totalSales"`
	TotalCancellations decimal.Decimal  `json:"totalCancellations"`
	TotalWithdrawals   decimal.Decimal  `json:"totalWithdrawals"`
	TotalDeposits      decimal.Decimal  `json:"totalDeposits"`
	OpenedAt           *time.Time       `json:"openedAt,omitempty"`
	OpenedBy           string           `json:"openedBy,omitempty"`
	ClosedAt           *time.Time       `json:"closedAt,omitempty"`
	ClosedBy           string           `json:"closedBy,omitempty"`
	DeclaredBalance    *decimal.Decimal `json:"declaredBalance,omitempty"`
	Difference         *decimal.Decimal `json:"difference,omitempty"`
	ClosingNotes       string           `json:"closingNotes,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	Movements          []CashMovement   `json:"movements,omitempty"`
	Version            int64            `json:"version"`
}

// NewCashDrawer creates a closed drawer.
func NewCashDrawer(number int, name string) (*CashDrawer, error) {
	if number <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "drawer number must be greater than zero")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "drawer name is required")
	}
	if len(name) > maxDrawerNameLength {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "drawer name cannot exceed %d characters", maxDrawerNameLength)
	}
	return &CashDrawer{
		DrawerID:  uuid.NewString(),
		Number:    number,
		Name:      name,
		createdAt: now(),
	}, nil
}

// RestoreCashDrawer rebuilds a drawer from persisted state. The movements are
// considered already stored.
func RestoreCashDrawer(s CashDrawerSnapshot) *CashDrawer {
	movements := append([]CashMovement(nil), s.Movements...)
	return &CashDrawer{
		DrawerID:        s.DrawerID,
		Number:          s.Number,
		Name:            s.Name,
		Version:         s.Version,
		sessionID:       s.SessionID,
		isOpen:          s.IsOpen,
		openingFloat:    s.OpeningFloat,
		balance:         s.Balance,
		openedAt:        s.OpenedAt,
		openedBy:        s.OpenedBy,
		closedAt:        s.ClosedAt,
		closedBy:        s.ClosedBy,
		declaredBalance: s.DeclaredBalance,
		difference:      s.Difference,
		closingNotes:    s.ClosingNotes,
		createdAt:       s.CreatedAt,
		movements:       movements,
		persisted:       len(movements),
	}
}

// Snapshot returns the exported view of the drawer, movements included.
func (c *CashDrawer) Snapshot() CashDrawerSnapshot {
	return CashDrawerSnapshot{
		DrawerID:           c.DrawerID,
		Number:             c.Number,
		Name:               c.Name,
		SessionID:          c.sessionID,
		IsOpen:             c.isOpen,
		OpeningFloat:       c.openingFloat,
		Balance:            c.balance,
		CalculatedBalance:  c.CalculatedBalance(),
		TotalSales:         c.TotalSales(),
		TotalCancellations: c.TotalCancellations(),
		TotalWithdrawals:   c.TotalWithdrawals(),
		TotalDeposits:      c.TotalDeposits(),
		OpenedAt:           c.openedAt,
		OpenedBy:           c.openedBy,
		ClosedAt:           c.closedAt,
		ClosedBy:           c.closedBy,
		DeclaredBalance:    c.declaredBalance,
		Difference:         c.difference,
		ClosingNotes:       c.closingNotes,
		CreatedAt:          c.createdAt,
		Movements:          c.Movements(),
		Version:            c.Version,
	}
}

func (c *CashDrawer) IsOpen() bool                  { return c.isOpen }
func (c *CashDrawer) SessionID() string             { return c.sessionID }
func (c *CashDrawer) OpeningFloat() decimal.Decimal { return c.openingFloat }
func (c *CashDrawer) Balance() decimal.Decimal      { return c.balance }
func (c *CashDrawer) ClosedAt() *time.Time          { return c.closedAt }
func (c *CashDrawer) Difference() *decimal.Decimal  { return c.difference }
func (c *CashDrawer) Movements() []CashMovement     { return append([]CashMovement(nil), c.movements...) }

// PendingMovements returns the movements appended since the drawer was loaded
// or last persisted.
func (c *CashDrawer) PendingMovements() []CashMovement {
	return append([]CashMovement(nil), c.movements[c.persisted:]...)
}

// MarkMovementsPersisted is called by repositories once pending movements are stored.
func (c *CashDrawer) MarkMovementsPersisted() {
	c.persisted = len(c.movements)
}

// CalculatedBalance is the opening float plus every movement after the opening.
func (c *CashDrawer) CalculatedBalance() decimal.Decimal {
	total := c.openingFloat
	for _, m := range c.movements {
		if m.Kind == CashOpen {
			continue
		}
		total = total.Add(m.Amount)
	}
	return total
}

func (c *CashDrawer) sumKind(kind CashMovementKind) decimal.Decimal {
	total := decimal.Zero
	for _, m := range c.movements {
		if m.Kind == kind {
			total = total.Add(m.Amount.Abs())
		}
	}
	return total
}

func (c *CashDrawer) TotalSales() decimal.Decimal         { return c.sumKind(CashSale) }
func (c *CashDrawer) TotalCancellations() decimal.Decimal { return c.sumKind(CashSaleCancellation) }
func (c *CashDrawer) TotalWithdrawals() decimal.Decimal   { return c.sumKind(CashWithdrawal) }
func (c *CashDrawer) TotalDeposits() decimal.Decimal      { return c.sumKind(CashDeposit) }

// Open starts a new session with the given float.
func (c *CashDrawer) Open(openingFloat decimal.Decimal, userID string) error {
	if c.isOpen {
		return apperrors.Newf(apperrors.CodeDrawerAlreadyOpen, "drawer %d is already open", c.Number)
	}
	if openingFloat.IsNegative() {
		return apperrors.New(apperrors.CodeInvalidAmount, "opening float cannot be negative")
	}
	if userID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	at := now()
	sessionID := uuid.NewString()
	opening, err := NewCashMovement(c.DrawerID, sessionID, CashOpen, openingFloat, "drawer opened", userID, "", at)
	if err != nil {
		return err
	}

	c.sessionID = sessionID
	c.isOpen = true
	c.openingFloat = openingFloat
	c.balance = openingFloat
	c.openedAt = &at
	c.openedBy = userID
	c.closedAt = nil
	c.closedBy = ""
	c.declaredBalance = nil
	c.difference = nil
	c.closingNotes = ""
	c.movements = []CashMovement{opening}
	c.persisted = 0

	c.checkInvariants()
	return nil
}

// Close ends the session with the cash counted by the cashier. A non-zero
// difference is booked as an overage or shortage adjustment, after which the
// balance equals the declared amount.
func (c *CashDrawer) Close(declared decimal.Decimal, userID, notes string) error {
	if !c.isOpen {
		return apperrors.Newf(apperrors.CodeDrawerNotOpen, "drawer %d is not open", c.Number)
	}
	if declared.IsNegative() {
		return apperrors.New(apperrors.CodeInvalidAmount, "declared balance cannot be negative")
	}
	if userID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	at := now()
	calculated := c.CalculatedBalance()
	difference := declared.Sub(calculated)

	closing, err := NewCashMovement(c.DrawerID, c.sessionID, CashClose, decimal.Zero,
		fmt.Sprintf("drawer closed. declared: %s, calculated: %s, difference: %s",
			declared.StringFixed(2), calculated.StringFixed(2), difference.StringFixed(2)),
		userID, "", at)
	if err != nil {
		return err
	}
	c.movements = append(c.movements, closing)

	if !difference.IsZero() {
		concept := "drawer overage"
		if difference.IsNegative() {
			concept = "drawer shortage"
		}
		adjustment, err := NewCashMovement(c.DrawerID, c.sessionID, CashAdjustment, difference, concept, userID, "", at)
		if err != nil {
			return err
		}
		c.movements = append(c.movements, adjustment)
	}

	c.isOpen = false
	c.balance = declared
	c.declaredBalance = &declared
	c.difference = &difference
	c.closedAt = &at
	c.closedBy = userID
	c.closingNotes = strings.TrimSpace(notes)

	c.checkInvariants()
	return nil
}

// RegisterMovement appends a sale, cancellation, withdrawal, deposit or
// adjustment and updates the running balance in the same step.
func (c *CashDrawer) RegisterMovement(kind CashMovementKind, amount decimal.Decimal, concept, userID, reference string) error {
	if !c.isOpen {
		return apperrors.Newf(apperrors.CodeDrawerNotOpen, "drawer %d must be open to register movements", c.Number)
	}
	if kind == CashOpen || kind == CashClose {
		return apperrors.New(apperrors.CodeInvalidArgument, "use Open and Close for opening and closing movements")
	}
	movement, err := NewCashMovement(c.DrawerID, c.sessionID, kind, amount, concept, userID, reference, now())
	if err != nil {
		return err
	}
	newBalance := c.balance.Add(movement.Amount)
	if newBalance.IsNegative() {
		return apperrors.Newf(apperrors.CodeInvalidAmount, "movement would leave a negative balance: current %s, movement %s",
			c.balance.StringFixed(2), movement.Amount.StringFixed(2))
	}
	c.movements = append(c.movements, movement)
	c.balance = newBalance

	c.checkInvariants()
	return nil
}

// RegisterSale books the cash of a finalized sale.
func (c *CashDrawer) RegisterSale(total decimal.Decimal, folio, userID string) error {
	return c.RegisterMovement(CashSale, total, "sale "+folio, userID, folio)
}

// RegisterCancellation books the refund of a reversed sale.
func (c *CashDrawer) RegisterCancellation(total decimal.Decimal, folio, userID string) error {
	return c.RegisterMovement(CashSaleCancellation, total.Neg(), "cancellation "+folio, userID, folio)
}

// RegisterWithdrawal takes cash out of the drawer.
func (c *CashDrawer) RegisterWithdrawal(amount decimal.Decimal, reason, userID string) error {
	if !amount.IsPositive() {
		return apperrors.New(apperrors.CodeInvalidAmount, "withdrawal amount must be greater than zero")
	}
	return c.RegisterMovement(CashWithdrawal, amount.Neg(), reason, userID, "")
}

// RegisterDeposit puts cash into the drawer.
func (c *CashDrawer) RegisterDeposit(amount decimal.Decimal, reason, userID string) error {
	if !amount.IsPositive() {
		return apperrors.New(apperrors.CodeInvalidAmount, "deposit amount must be greater than zero")
	}
	return c.RegisterMovement(CashDeposit, amount, reason, userID, "")
}

// Checkpoint snapshots the drawer, including its ledger, and returns a function
// restoring it.
func (c *CashDrawer) Checkpoint() func() {
	saved := *c
	saved.movements = append([]CashMovement(nil), c.movements...)
	return func() { *c = saved }
}

func (c *CashDrawer) checkInvariants() {
	if c.balance.Sub(c.CalculatedBalance()).Abs().GreaterThan(Tolerance) {
		apperrors.Violate("cash drawer", "drawer %d balance %s does not match calculated %s",
			c.Number, c.balance.StringFixed(2), c.CalculatedBalance().StringFixed(2))
	}
	if c.balance.IsNegative() {
		apperrors.Violate("cash drawer", "drawer %d has a negative balance", c.Number)
	}
	if !c.isOpen && c.openedAt != nil && c.closedAt == nil {
		apperrors.Violate("cash drawer", "drawer %d is closed without a closing time", c.Number)
	}
}
