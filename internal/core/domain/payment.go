package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentDebit    PaymentMethod = "DEBIT"
	PaymentCredit   PaymentMethod = "CREDIT"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentMixed    PaymentMethod = "MIXED"
)

// IsValid reports whether m is a known method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}

// RequiresReference is true for methods that must carry an authorization
// reference. A mixed payment has an electronic part, so it needs one too.
func (m PaymentMethod) RequiresReference() bool {
	switch m {
	case PaymentDebit, PaymentCredit, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}

// Payment is a payment registered against a sale.
type Payment struct {
	PaymentID string          `json:"paymentID"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Change    decimal.Decimal `json:"change"`
	PaidAt    time.Time       `json:"paidAt"`
}

func newPayment(amount decimal.Decimal, method PaymentMethod, saleTotal decimal.Decimal, reference string, at time.Time) (Payment, error) {
	if !method.IsValid() {
		return Payment{}, apperrors.Newf(apperrors.CodeInvalidArgument, "unknown payment method %q", method)
	}
	if !amount.IsPositive() {
		return Payment{}, apperrors.New(apperrors.CodeInvalidAmount, "payment amount must be greater than zero")
	}
	if !saleTotal.IsPositive() {
		return Payment{}, apperrors.New(apperrors.CodeInvalidAmount, "sale total must be greater than zero")
	}
	if amount.LessThan(saleTotal) {
		return Payment{}, apperrors.Newf(apperrors.CodeInvalidAmount, "insufficient payment: required %s, paid %s", saleTotal.StringFixed(2), amount.StringFixed(2))
	}
	change := decimal.Zero
	if method == PaymentCash {
		change = amount.Sub(saleTotal)
	} else if !amount.Equal(saleTotal) {
		return Payment{}, apperrors.Newf(apperrors.CodeInvalidAmount, "%s payments must be for the exact amount", strings.ToLower(string(method)))
	}
	reference = strings.TrimSpace(reference)
	if method.RequiresReference() && reference == "" {
		return Payment{}, apperrors.New(apperrors.CodeInvalidArgument, "a reference is required for electronic and mixed payments")
	}
	return Payment{
		PaymentID: uuid.NewString(),
		Amount:    amount,
		Method:    method,
		Reference: reference,
		Change:    change,
		PaidAt:    at,
	}, nil
}
