package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

// StockMovementRepository stores the append-only stock audit trail.
type StockMovementRepository interface {
	// SaveStockMovement appends a movement.
	SaveStockMovement(ctx context.Context, movement domain.StockMovement) error

	// ListStockMovements returns the movements of a product, newest first.
	ListStockMovements(ctx context.Context, productID string, limit int, after *PageCursor) ([]domain.StockMovement, error)
}

// FolioSequenceRepository hands out per-day folio sequence numbers.
type FolioSequenceRepository interface {
	// NextFolioSequence increments and returns the sequence of the given day.
	// Concurrent callers are serialized until their transactions end.
	NextFolioSequence(ctx context.Context, day time.Time) (int, error)
}
