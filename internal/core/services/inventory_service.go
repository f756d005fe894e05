package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/utils/pagination"
)

// inventoryService implements the InventorySvcFacade interface
type inventoryService struct {
	BaseService
}

// NewInventoryService creates the stock maintenance service.
func NewInventoryService(factory portsrepo.UnitOfWorkFactory, options ...ServiceOption) portssvc.InventorySvcFacade {
	return &inventoryService{
		BaseService: newBaseService(factory, buildOptions(options)),
	}
}

// Ensure inventoryService implements the InventorySvcFacade interface
var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) GetStock(ctx context.Context, productID string) (*domain.Inventory, error) {
	var inventory *domain.Inventory
	err := s.withTransaction(ctx, "inventory.get", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Inventories().FindInventoryByProductID(ctx, productID)
		inventory = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get stock", slog.String("product_id", productID))
		return nil, err
	}
	return inventory, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context, limit int) ([]*domain.Inventory, error) {
	if limit <= 0 || limit > dto.MaxPageSize {
		limit = dto.DefaultPageSize
	}
	var inventories []*domain.Inventory
	err := s.withTransaction(ctx, "inventory.list_low_stock", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Inventories().ListLowStock(ctx, limit)
		inventories = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list low stock")
		return nil, err
	}
	return inventories, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, productID string, params dto.ListParams) (*dto.ListStockMovementsResponse, error) {
	after, err := pagination.DecodeCursor(params.NextToken)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error())
	}
	limit := params.PageLimit()

	var movements []domain.StockMovement
	err = s.withTransaction(ctx, "inventory.list_movements", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.StockMovements().ListStockMovements(ctx, productID, limit+1, after)
		movements = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list stock movements", slog.String("product_id", productID))
		return nil, err
	}

	resp := &dto.ListStockMovementsResponse{Movements: movements}
	if len(movements) > limit {
		resp.Movements = movements[:limit]
		last := resp.Movements[limit-1]
		resp.NextToken = pagination.EncodeCursor(&portsrepo.PageCursor{CreatedAt: last.CreatedAt, ID: last.MovementID})
	}
	if resp.Movements == nil {
		resp.Movements = []domain.StockMovement{}
	}
	return resp, nil
}

// ReceiveStock books delivered units as an entry movement.
func (s *inventoryService) ReceiveStock(ctx context.Context, productID string, req dto.ReceiveStockRequest, userID string) (*domain.Inventory, error) {
	return s.change(ctx, "inventory.receive", productID, func(inv *domain.Inventory) (domain.StockMovementKind, int, string, error) {
		return domain.StockEntry, req.Quantity, req.Concept, inv.IncrementStock(req.Quantity)
	}, req.Reference, userID)
}

// AdjustStock sets physical stock to a counted value and records the delta.
func (s *inventoryService) AdjustStock(ctx context.Context, productID string, newValue int, reason, userID string) (*domain.Inventory, error) {
	return s.change(ctx, "inventory.adjust", productID, func(inv *domain.Inventory) (domain.StockMovementKind, int, string, error) {
		delta := newValue - inv.Physical()
		return domain.StockAdjustment, delta, reason, inv.AdjustStock(newValue, reason)
	}, "", userID)
}

// RegisterShrinkage removes damaged or lost units.
func (s *inventoryService) RegisterShrinkage(ctx context.Context, productID string, qty int, reason, userID string) (*domain.Inventory, error) {
	if err := domain.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	return s.change(ctx, "inventory.shrinkage", productID, func(inv *domain.Inventory) (domain.StockMovementKind, int, string, error) {
		if strings.TrimSpace(reason) == "" {
			return "", 0, "", apperrors.New(apperrors.CodeReasonRequired, "a shrinkage reason is required")
		}
		return domain.StockShrinkage, qty, reason, inv.DecrementStock(qty)
	}, "", userID)
}

func (s *inventoryService) UpdateLimits(ctx context.Context, productID string, minimum, maximum int) (*domain.Inventory, error) {
	var inventory *domain.Inventory
	err := s.withTransaction(ctx, "inventory.update_limits", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := found.UpdateLimits(minimum, maximum); err != nil {
			return err
		}
		if err := uow.Inventories().UpdateInventory(ctx, found); err != nil {
			return err
		}
		inventory = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update stock limits", slog.String("product_id", productID))
		return nil, err
	}
	return inventory, nil
}

// stockChange applies one change to a locked inventory and reports the
// movement it produced. A zero quantity means no movement is recorded.
type stockChange func(inv *domain.Inventory) (kind domain.StockMovementKind, qty int, concept string, err error)

func (s *inventoryService) change(ctx context.Context, operation, productID string, apply stockChange, reference, userID string) (*domain.Inventory, error) {
	var (
		inventory *domain.Inventory
		low       bool
	)
	err := s.withTransaction(ctx, operation, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		before := found.Physical()
		wasLow := found.IsLowStock()
		kind, qty, concept, err := apply(found)
		if err != nil {
			return err
		}
		if err := uow.Inventories().UpdateInventory(ctx, found); err != nil {
			return err
		}
		if qty != 0 {
			movement, err := domain.NewStockMovement(domain.NewStockMovementParams{
				ProductID:   productID,
				Kind:        kind,
				Quantity:    qty,
				StockBefore: before,
				StockAfter:  found.Physical(),
				Concept:     concept,
				UserID:      userID,
				Reference:   reference,
				At:          s.now(),
			})
			if err != nil {
				return err
			}
			if err := uow.StockMovements().SaveStockMovement(ctx, movement); err != nil {
				return err
			}
		}
		inventory = found
		low = !wasLow && found.IsLowStock()
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to change stock",
			slog.String("operation", operation),
			slog.String("product_id", productID))
		return nil, err
	}

	if low {
		s.publish(ctx, lowStockEvent(inventory, userID))
	}
	s.LogInfo(ctx, "Stock changed",
		slog.String("operation", operation),
		slog.String("product_id", productID),
		slog.Int("physical", inventory.Physical()),
		slog.Int("available", inventory.Available()))
	return inventory, nil
}
