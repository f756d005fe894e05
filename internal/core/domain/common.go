package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

func (a *AuditFields) touch(userID string, at time.Time) {
	a.LastUpdatedAt = at
	if userID != "" {
		a.LastUpdatedBy = userID
	}
}

// MaxConceptLength bounds free-text concepts on ledger movements.
const MaxConceptLength = 500

// MaxLineQuantity is the largest quantity a single line or reservation may hold.
const MaxLineQuantity = 9999

// Tolerance is the largest drift accepted between two money figures that must match.
var Tolerance = decimal.New(1, -2)

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func now() time.Time {
	return time.Now().UTC()
}
