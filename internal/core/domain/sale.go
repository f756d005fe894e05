package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/utils/taxes"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus is the state of a sale.
type SaleStatus string

const (
	SaleNew       SaleStatus = "NEW"
	SaleOpen      SaleStatus = "OPEN"
	SalePaid      SaleStatus = "PAID"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Sale is the aggregate root of a checkout. It exclusively owns its line items
// and payments; they can be enumerated but only changed through Sale methods.
//
// Transitions: New -> Open on the first item, Open -> New when the last item is
// removed, Open -> Paid on payment, New/Open -> Cancelled via Cancel and
// Paid -> Cancelled via Reverse. Paid and Cancelled accept no other change.
type Sale struct {
	SaleID  string
	Folio   Folio
	UserID  string
	TaxRate decimal.Decimal
	Version int64

	status       SaleStatus
	items        []LineItem
	payments     []Payment
	createdAt    time.Time
	updatedAt    time.Time
	paidAt       *time.Time
	finalizedAt  *time.Time
	cancelledAt  *time.Time
	cancelReason string
	cancelledBy  string
	reversed     bool
}

// SaleSnapshot is the flat, exported form of a Sale used by persistence and
// transport layers.
type SaleSnapshot struct {
	SaleID       string          `json:"saleID"`
	Folio        string          `json:"folio"`
	UserID       string          `json:"userID"`
	Status       SaleStatus      `json:"status"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Items        []LineItem      `json:"items"`
	Payments     []Payment       `json:"payments"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	Change       decimal.Decimal `json:"change"`
	ItemCount    int             `json:"itemCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	FinalizedAt  *time.Time      `json:"finalizedAt,omitempty"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason string          `json:"cancelReason,omitempty"`
	CancelledBy  string          `json:"cancelledBy,omitempty"`
	Reversed     bool            `json:"reversed"`
	Version      int64           `json:"version"`
}

// NewSale creates an empty sale in state New.
func NewSale(folio Folio, userID string, taxRate decimal.Decimal) (*Sale, error) {
	if folio.IsZero() {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "folio is required")
	}
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	if err := taxes.ValidateRate(taxRate); err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error())
	}
	at := now()
	return &Sale{
		SaleID:    uuid.NewString(),
		Folio:     folio,
		UserID:    userID,
		TaxRate:   taxRate,
		status:    SaleNew,
		createdAt: at,
		updatedAt: at,
	}, nil
}

// RestoreSale rebuilds a Sale from persisted state.
func RestoreSale(s SaleSnapshot) (*Sale, error) {
	folio, err := ParseFolio(s.Folio)
	if err != nil {
		return nil, err
	}
	return &Sale{
		SaleID:       s.SaleID,
		Folio:        folio,
		UserID:       s.UserID,
		TaxRate:      s.TaxRate,
		Version:      s.Version,
		status:       s.Status,
		items:        append([]LineItem(nil), s.Items...),
		payments:     append([]Payment(nil), s.Payments...),
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		paidAt:       s.PaidAt,
		finalizedAt:  s.FinalizedAt,
		cancelledAt:  s.CancelledAt,
		cancelReason: s.CancelReason,
		cancelledBy:  s.CancelledBy,
		reversed:     s.Reversed,
	}, nil
}

// Snapshot returns the exported view of the sale including derived totals.
func (s *Sale) Snapshot() SaleSnapshot {
	return SaleSnapshot{
		SaleID:       s.SaleID,
		Folio:        s.Folio.String(),
		UserID:       s.UserID,
		Status:       s.status,
		TaxRate:      s.TaxRate,
		Items:        s.Items(),
		Payments:     s.Payments(),
		Subtotal:     s.Subtotal(),
		Tax:          s.Tax(),
		Total:        s.Total(),
		AmountPaid:   s.AmountPaid(),
		Change:       s.Change(),
		ItemCount:    s.ItemCount(),
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
		PaidAt:       s.paidAt,
		FinalizedAt:  s.finalizedAt,
		CancelledAt:  s.cancelledAt,
		CancelReason: s.cancelReason,
		CancelledBy:  s.cancelledBy,
		Reversed:     s.reversed,
		Version:      s.Version,
	}
}

func (s *Sale) Status() SaleStatus      { return s.status }
func (s *Sale) CreatedAt() time.Time    { return s.createdAt }
func (s *Sale) UpdatedAt() time.Time    { return s.updatedAt }
func (s *Sale) PaidAt() *time.Time      { return s.paidAt }
func (s *Sale) FinalizedAt() *time.Time { return s.finalizedAt }
func (s *Sale) IsFinalized() bool       { return s.finalizedAt != nil }
func (s *Sale) CancelledAt() *time.Time { return s.cancelledAt }
func (s *Sale) CancelReason() string    { return s.cancelReason }
func (s *Sale) WasReversed() bool       { return s.reversed }
func (s *Sale) HasItems() bool          { return len(s.items) > 0 }
func (s *Sale) IsTerminal() bool        { return s.status == SalePaid || s.status == SaleCancelled }
func (s *Sale) Items() []LineItem       { return append([]LineItem(nil), s.items...) }
func (s *Sale) Payments() []Payment     { return append([]Payment(nil), s.payments...) }

// Item returns a copy of the line for productID.
func (s *Sale) Item(productID string) (LineItem, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// Subtotal is the sum of line subtotals.
func (s *Sale) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Tax is the sum of line taxes.
func (s *Sale) Tax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.items {
		total = total.Add(l.Tax())
	}
	return total
}

// Total is subtotal plus tax, rounded to cents.
func (s *Sale) Total() decimal.Decimal {
	return RoundMoney(s.Subtotal().Add(s.Tax()))
}

// AmountPaid is the sum of registered payments.
func (s *Sale) AmountPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Change is the total change given back.
func (s *Sale) Change() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.payments {
		total = total.Add(p.Change)
	}
	return total
}

// ItemCount is the number of units across all lines.
func (s *Sale) ItemCount() int {
	n := 0
	for _, l := range s.items {
		n += l.Quantity
	}
	return n
}

// AddItem adds qty units of product, merging into an existing line.
func (s *Sale) AddItem(product *Product, qty int) error {
	if err := s.requireEditable(); err != nil {
		return err
	}
	if product == nil {
		return apperrors.New(apperrors.CodeProductNotFound, "product is required")
	}
	if !product.IsActive {
		return apperrors.Newf(apperrors.CodeProductInactive, "product %s is inactive", product.Name)
	}
	if i := s.indexOf(product.ProductID); i >= 0 {
		if err := s.items[i].increment(qty); err != nil {
			return err
		}
	} else {
		line, err := newLineItem(product, qty, s.TaxRate)
		if err != nil {
			return err
		}
		s.items = append(s.items, line)
	}
	if s.status == SaleNew {
		s.status = SaleOpen
	}
	s.changed()
	return nil
}

// RemoveItem drops the line of productID. Removing the last line reverts the sale to New.
func (s *Sale) RemoveItem(productID string) error {
	if err := s.requireEditable(); err != nil {
		return err
	}
	i := s.indexOf(productID)
	if i < 0 {
		return apperrors.Newf(apperrors.CodeProductNotFound, "product %s is not part of the sale", productID)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if len(s.items) == 0 {
		s.status = SaleNew
	}
	s.changed()
	return nil
}

// SetItemQuantity sets the quantity of an existing line.
func (s *Sale) SetItemQuantity(productID string, qty int) error {
	if err := s.requireEditable(); err != nil {
		return err
	}
	i := s.indexOf(productID)
	if i < 0 {
		return apperrors.Newf(apperrors.CodeProductNotFound, "product %s is not part of the sale", productID)
	}
	if err := s.items[i].setQuantity(qty); err != nil {
		return err
	}
	s.changed()
	return nil
}

// DecrementItem removes qty units from an existing line, keeping at least one.
func (s *Sale) DecrementItem(productID string, qty int) error {
	if err := s.requireEditable(); err != nil {
		return err
	}
	i := s.indexOf(productID)
	if i < 0 {
		return apperrors.Newf(apperrors.CodeProductNotFound, "product %s is not part of the sale", productID)
	}
	if err := s.items[i].decrement(qty); err != nil {
		return err
	}
	s.changed()
	return nil
}

// RegisterPayment pays an open sale in full and moves it to Paid.
func (s *Sale) RegisterPayment(amount decimal.Decimal, method PaymentMethod, reference string) error {
	switch s.status {
	case SalePaid:
		return apperrors.New(apperrors.CodeSaleAlreadyPaid, "sale is already paid")
	case SaleCancelled:
		return apperrors.New(apperrors.CodeSaleAlreadyCancelled, "sale is cancelled")
	case SaleNew:
		return apperrors.New(apperrors.CodeSaleWithoutItems, "cannot pay a sale without items")
	}
	if len(s.items) == 0 {
		return apperrors.New(apperrors.CodeSaleWithoutItems, "cannot pay a sale without items")
	}
	at := now()
	payment, err := newPayment(amount, method, s.Total(), reference, at)
	if err != nil {
		return err
	}
	s.payments = append(s.payments, payment)
	s.status = SalePaid
	s.paidAt = &at
	s.changed()
	return nil
}

// MarkFinalized records that stock and cash were booked for a paid sale.
// A sale is finalized once.
func (s *Sale) MarkFinalized(at time.Time) error {
	if s.status != SalePaid {
		return apperrors.New(apperrors.CodeSaleNotPaid, "only paid sales can be finalized")
	}
	if s.finalizedAt != nil {
		return apperrors.Newf(apperrors.CodeInvalidSaleState, "sale %s is already finalized", s.Folio)
	}
	at = at.UTC()
	s.finalizedAt = &at
	s.changed()
	return nil
}

// Cancel abandons a sale that was not paid.
func (s *Sale) Cancel(reason, userID string) error {
	switch s.status {
	case SaleCancelled:
		return apperrors.New(apperrors.CodeSaleAlreadyCancelled, "sale is already cancelled")
	case SalePaid:
		return apperrors.New(apperrors.CodeSaleAlreadyPaid, "sale is paid, use reverse instead")
	}
	if blank(reason) {
		return apperrors.New(apperrors.CodeReasonRequired, "a cancellation reason is required")
	}
	s.markCancelled(reason, userID)
	return nil
}

// Reverse cancels a paid sale.
func (s *Sale) Reverse(reason, userID string) error {
	switch s.status {
	case SaleCancelled:
		return apperrors.New(apperrors.CodeSaleAlreadyCancelled, "sale is already cancelled")
	case SaleNew, SaleOpen:
		return apperrors.New(apperrors.CodeSaleNotPaid, "only paid sales can be reversed")
	}
	if blank(reason) {
		return apperrors.New(apperrors.CodeReasonRequired, "a reversal reason is required")
	}
	s.reversed = true
	s.markCancelled(reason, userID)
	return nil
}

// Checkpoint snapshots the sale, including its owned children, and returns a
// function restoring it.
func (s *Sale) Checkpoint() func() {
	saved := *s
	saved.items = append([]LineItem(nil), s.items...)
	saved.payments = append([]Payment(nil), s.payments...)
	return func() { *s = saved }
}

func (s *Sale) markCancelled(reason, userID string) {
	at := now()
	s.status = SaleCancelled
	s.cancelReason = strings.TrimSpace(reason)
	s.cancelledAt = &at
	s.cancelledBy = userID
	s.changed()
}

func (s *Sale) requireEditable() error {
	switch s.status {
	case SalePaid:
		return apperrors.New(apperrors.CodeSaleAlreadyPaid, "a paid sale cannot be modified")
	case SaleCancelled:
		return apperrors.New(apperrors.CodeSaleAlreadyCancelled, "a cancelled sale cannot be modified")
	}
	return nil
}

func (s *Sale) indexOf(productID string) int {
	for i, l := range s.items {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Sale) changed() {
	s.updatedAt = now()
	s.checkInvariants()
}

func (s *Sale) checkInvariants() {
	if s.status == SalePaid {
		if len(s.items) == 0 {
			apperrors.Violate("sale", "sale %s is paid without items", s.SaleID)
		}
		if len(s.payments) == 0 {
			apperrors.Violate("sale", "sale %s is paid without a payment", s.SaleID)
		}
		if s.AmountPaid().LessThan(s.Total()) {
			apperrors.Violate("sale", "sale %s is paid with %s against a total of %s", s.SaleID, s.AmountPaid().String(), s.Total().String())
		}
	}
	if s.finalizedAt != nil && s.paidAt == nil {
		apperrors.Violate("sale", "sale %s is finalized without payment", s.SaleID)
	}
	if s.status == SaleCancelled && len(s.payments) > 0 && len(s.items) == 0 {
		apperrors.Violate("sale", "reversed sale %s has no items", s.SaleID)
	}
	if (s.status == SaleNew && len(s.items) > 0) || (s.status == SaleOpen && len(s.items) == 0) {
		apperrors.Violate("sale", "sale %s is %s with %d items", s.SaleID, s.status, len(s.items))
	}
	for _, l := range s.items {
		if l.Quantity <= 0 {
			apperrors.Violate("sale", "line %s has non-positive quantity %d", l.ProductID, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			apperrors.Violate("sale", "line %s has negative price", l.ProductID)
		}
	}
}
