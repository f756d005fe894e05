package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Type names a business event emitted after a transaction commits.
type Type string

const (
	SaleFinalized Type = "sale.finalized"
	SaleCancelled Type = "sale.cancelled"
	SaleReversed  Type = "sale.reversed"
	DrawerOpened  Type = "drawer.opened"
	DrawerClosed  Type = "drawer.closed"
	LowStock      Type = "inventory.low_stock"
)

// Event is the payload consumed by downstream audit and reporting services.
type Event struct {
	Type        Type            `json:"type"`
	AggregateID string          `json:"aggregateID"`
	Folio       string          `json:"folio,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	UserID      string          `json:"userID"`
	Attributes  map[string]any  `json:"attributes,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// Publisher delivers events. Delivery happens after commit and is best effort:
// a failure is logged but never undoes the committed operation.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
