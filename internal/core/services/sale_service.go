package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/SscSPs/pos_core/internal/metrics"
	"github.com/SscSPs/pos_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// saleService implements the SaleSvcFacade interface
type saleService struct {
	BaseService
	products           portssvc.ProductReaderSvc
	folios             FolioGenerator
	taxRate            decimal.Decimal
	reservationMinutes int
}

// NewSaleService creates the checkout service. Barcodes are resolved through
// products so that scans benefit from its cache.
func NewSaleService(factory portsrepo.UnitOfWorkFactory, products portssvc.ProductReaderSvc, options ...ServiceOption) portssvc.SaleSvcFacade {
	opts := buildOptions(options)
	return &saleService{
		BaseService:        newBaseService(factory, opts),
		products:           products,
		taxRate:            opts.taxRate,
		reservationMinutes: opts.reservationMinutes,
	}
}

// Ensure saleService implements the SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

func (s *saleService) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.get", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		sale = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get sale", slog.String("sale_id", saleID))
		return nil, err
	}
	return sale, nil
}

func (s *saleService) GetSaleByFolio(ctx context.Context, folio string) (*domain.Sale, error) {
	parsed, err := domain.ParseFolio(folio)
	if err != nil {
		return nil, err
	}
	var sale *domain.Sale
	err = s.withTransaction(ctx, "sale.get_by_folio", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByFolio(ctx, parsed.String())
		sale = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get sale by folio", slog.String("folio", folio))
		return nil, err
	}
	return sale, nil
}

func (s *saleService) ListSalesByDate(ctx context.Context, params dto.ListSalesParams) (*dto.ListSalesResponse, error) {
	after, err := pagination.DecodeCursor(params.NextToken)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error())
	}
	day := params.Date
	if day.IsZero() {
		day = s.now()
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	limit := params.PageLimit()

	var sales []*domain.Sale
	err = s.withTransaction(ctx, "sale.list_by_date", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().ListSalesByDate(ctx, day, limit+1, after)
		sales = found
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list sales", slog.String("date", day.Format("2006-01-02")))
		return nil, err
	}

	resp := &dto.ListSalesResponse{}
	if len(sales) > limit {
		sales = sales[:limit]
		last := sales[len(sales)-1]
		resp.NextToken = pagination.EncodeCursor(&portsrepo.PageCursor{CreatedAt: last.CreatedAt(), ID: last.SaleID})
	}
	resp.Sales = dto.ToSaleResponses(sales)
	return resp, nil
}

// CreateSale starts a sale with the next folio of the day.
func (s *saleService) CreateSale(ctx context.Context, userID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.create", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := findOpenDrawer(ctx, uow); err != nil {
			return err
		}
		folio, err := s.folios.Next(ctx, uow, s.now())
		if err != nil {
			return err
		}
		created, err := domain.NewSale(folio, userID, s.taxRate)
		if err != nil {
			return err
		}
		if err := uow.Sales().SaveSale(ctx, created); err != nil {
			return err
		}
		sale = created
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create sale", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale created",
		slog.String("sale_id", sale.SaleID),
		slog.String("folio", sale.Folio.String()))
	return sale, nil
}

// ScanProduct holds qty units under a reservation and adds them to the sale.
// The inventory row stays locked from the availability check to the commit.
func (s *saleService) ScanProduct(ctx context.Context, saleID, barcode string, qty int, userID string) (*domain.Sale, error) {
	if err := domain.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	product, err := s.products.GetProductByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.Newf(apperrors.CodeProductInactive, "product %s is inactive", product.Name)
	}

	var sale *domain.Sale
	err = s.withTransaction(ctx, "sale.scan_product", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, product.ProductID)
		if err != nil {
			return err
		}
		if err := domain.ValidateAvailable(inventory, qty); err != nil {
			return err
		}
		if err := found.AddItem(product, qty); err != nil {
			return err
		}
		if err := s.reserve(ctx, uow, inventory, found.SaleID, qty, userID); err != nil {
			return err
		}
		if err := uow.Inventories().UpdateInventory(ctx, inventory); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to scan product",
			slog.String("sale_id", saleID),
			slog.String("barcode", barcode),
			slog.Int("quantity", qty))
		return nil, err
	}

	s.LogDebug(ctx, "Product scanned",
		slog.String("sale_id", saleID),
		slog.String("product_id", product.ProductID),
		slog.Int("quantity", qty))
	return sale, nil
}

func (s *saleService) RemoveItem(ctx context.Context, saleID, productID, userID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.remove_item", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.RemoveItem(productID); err != nil {
			return err
		}
		if err := s.releaseProduct(ctx, uow, saleID, productID, "item removed from sale"); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to remove item",
			slog.String("sale_id", saleID),
			slog.String("product_id", productID),
			slog.String("user_id", userID))
		return nil, err
	}
	return sale, nil
}

// SetItemQuantity replaces the reservations of a line with one matching the
// new quantity.
func (s *saleService) SetItemQuantity(ctx context.Context, saleID, productID string, qty int, userID string) (*domain.Sale, error) {
	if err := domain.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.set_item_quantity", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.SetItemQuantity(productID, qty); err != nil {
			return err
		}
		if err := s.releaseProduct(ctx, uow, saleID, productID, "item quantity changed"); err != nil {
			return err
		}
		inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.reserve(ctx, uow, inventory, saleID, qty, userID); err != nil {
			return err
		}
		if err := uow.Inventories().UpdateInventory(ctx, inventory); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to set item quantity",
			slog.String("sale_id", saleID),
			slog.String("product_id", productID),
			slog.Int("quantity", qty))
		return nil, err
	}
	return sale, nil
}

func (s *saleService) RegisterPayment(ctx context.Context, saleID string, req dto.RegisterPaymentRequest) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.register_payment", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.RegisterPayment(req.Amount, req.Method, req.Reference); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to register payment",
			slog.String("sale_id", saleID),
			slog.String("method", string(req.Method)))
		return nil, err
	}

	s.LogInfo(ctx, "Payment registered",
		slog.String("sale_id", saleID),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("change", sale.Change().StringFixed(2)))
	return sale, nil
}

// FinalizeSale books a paid sale: every line is taken out of stock with an
// audit movement, its reservations are confirmed and the total goes into the
// open drawer. Either all of it is committed or none of it.
func (s *saleService) FinalizeSale(ctx context.Context, saleID, userID string) (*domain.Sale, error) {
	var (
		sale     *domain.Sale
		lowStock []events.Event
	)
	err := s.withTransaction(ctx, "sale.finalize", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		lowStock = nil
		at := s.now()

		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if found.Status() == domain.SaleCancelled {
			return apperrors.New(apperrors.CodeSaleAlreadyCancelled, "sale is cancelled")
		}
		if !found.HasItems() {
			return apperrors.New(apperrors.CodeSaleWithoutItems, "sale has no items")
		}
		if err := found.MarkFinalized(at); err != nil {
			return err
		}
		drawer, err := findOpenDrawer(ctx, uow)
		if err != nil {
			return err
		}
		held, err := activeReservationsByProduct(ctx, uow, saleID)
		if err != nil {
			return err
		}

		folio := found.Folio.String()
		for _, line := range sortedLines(found) {
			inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if err := s.settleReservations(ctx, uow, inventory, held[line.ProductID], line.Quantity, at); err != nil {
				return err
			}

			before := inventory.Physical()
			wasLow := inventory.IsLowStock()
			if err := inventory.Confirm(line.Quantity); err != nil {
				return err
			}
			if err := uow.Inventories().UpdateInventory(ctx, inventory); err != nil {
				return err
			}
			movement, err := domain.NewStockMovement(domain.NewStockMovementParams{
				ProductID:   line.ProductID,
				Kind:        domain.StockSale,
				Quantity:    line.Quantity,
				StockBefore: before,
				StockAfter:  inventory.Physical(),
				Concept:     "sale " + folio,
				UserID:      userID,
				SaleID:      saleID,
				Reference:   folio,
				At:          at,
			})
			if err != nil {
				return err
			}
			if err := uow.StockMovements().SaveStockMovement(ctx, movement); err != nil {
				return err
			}
			if !wasLow && domain.NeedsRestock(inventory) {
				lowStock = append(lowStock, lowStockEvent(inventory, userID))
			}
		}

		if err := drawer.RegisterSale(found.Total(), folio, userID); err != nil {
			return err
		}
		if err := uow.CashDrawers().UpdateCashDrawer(ctx, drawer); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to finalize sale", slog.String("sale_id", saleID))
		return nil, err
	}

	metrics.SalesTotal.WithLabelValues("finalized").Inc()
	metrics.SalesAmount.Add(sale.Total().InexactFloat64())
	s.publish(ctx, append([]events.Event{{
		Type:        events.SaleFinalized,
		AggregateID: sale.SaleID,
		Folio:       sale.Folio.String(),
		Amount:      sale.Total(),
		UserID:      userID,
		Attributes:  map[string]any{"items": sale.ItemCount()},
	}}, lowStock...)...)
	s.LogInfo(ctx, "Sale finalized",
		slog.String("sale_id", sale.SaleID),
		slog.String("folio", sale.Folio.String()),
		slog.String("total", sale.Total().StringFixed(2)))
	return sale, nil
}

// CancelSale abandons an unpaid sale and gives its reserved stock back.
func (s *saleService) CancelSale(ctx context.Context, saleID, reason, userID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.cancel", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.Cancel(reason, userID); err != nil {
			return err
		}
		held, err := activeReservationsByProduct(ctx, uow, saleID)
		if err != nil {
			return err
		}
		for _, productID := range sortedKeys(held) {
			if err := s.releaseReservations(ctx, uow, productID, held[productID], "sale cancelled: "+reason); err != nil {
				return err
			}
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to cancel sale", slog.String("sale_id", saleID))
		return nil, err
	}

	metrics.SalesTotal.WithLabelValues("cancelled").Inc()
	s.publish(ctx, events.Event{
		Type:        events.SaleCancelled,
		AggregateID: sale.SaleID,
		Folio:       sale.Folio.String(),
		Amount:      sale.Total(),
		UserID:      userID,
		Attributes:  map[string]any{"reason": sale.CancelReason()},
	})
	s.LogInfo(ctx, "Sale cancelled",
		slog.String("sale_id", sale.SaleID),
		slog.String("reason", sale.CancelReason()))
	return sale, nil
}

// ReverseSale undoes a paid sale. For a finalized sale the returned units go
// back to stock with an audit movement and the total is refunded from the open
// drawer in the same transaction. A sale paid but not yet finalized has taken
// neither stock nor cash, so only its reservations are released.
func (s *saleService) ReverseSale(ctx context.Context, saleID, reason, userID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.withTransaction(ctx, "sale.reverse", portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		finalized := found.IsFinalized()
		if err := found.Reverse(reason, userID); err != nil {
			return err
		}
		if !finalized {
			held, err := activeReservationsByProduct(ctx, uow, saleID)
			if err != nil {
				return err
			}
			for _, productID := range sortedKeys(held) {
				if err := s.releaseReservations(ctx, uow, productID, held[productID], "sale reversed: "+reason); err != nil {
					return err
				}
			}
			if err := uow.Sales().UpdateSale(ctx, found); err != nil {
				return err
			}
			sale = found
			return nil
		}
		drawer, err := findOpenDrawer(ctx, uow)
		if err != nil {
			return err
		}

		at := s.now()
		folio := found.Folio.String()
		for _, line := range sortedLines(found) {
			inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			before := inventory.Physical()
			if err := inventory.ReturnStock(line.Quantity); err != nil {
				return err
			}
			if err := uow.Inventories().UpdateInventory(ctx, inventory); err != nil {
				return err
			}
			movement, err := domain.NewStockMovement(domain.NewStockMovementParams{
				ProductID:   line.ProductID,
				Kind:        domain.StockReturn,
				Quantity:    line.Quantity,
				StockBefore: before,
				StockAfter:  inventory.Physical(),
				Concept:     "reversal " + folio,
				UserID:      userID,
				SaleID:      saleID,
				Reference:   folio,
				At:          at,
			})
			if err != nil {
				return err
			}
			if err := uow.StockMovements().SaveStockMovement(ctx, movement); err != nil {
				return err
			}
		}

		if err := drawer.RegisterCancellation(found.Total(), folio, userID); err != nil {
			return err
		}
		if err := uow.CashDrawers().UpdateCashDrawer(ctx, drawer); err != nil {
			return err
		}
		if err := uow.Sales().UpdateSale(ctx, found); err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reverse sale", slog.String("sale_id", saleID))
		return nil, err
	}

	metrics.SalesTotal.WithLabelValues("reversed").Inc()
	s.publish(ctx, events.Event{
		Type:        events.SaleReversed,
		AggregateID: sale.SaleID,
		Folio:       sale.Folio.String(),
		Amount:      sale.Total(),
		UserID:      userID,
		Attributes:  map[string]any{"reason": sale.CancelReason(), "finalized": sale.IsFinalized()},
	})
	s.LogInfo(ctx, "Sale reversed",
		slog.String("sale_id", sale.SaleID),
		slog.String("total", sale.Total().StringFixed(2)))
	return sale, nil
}

// reserve holds qty units of a locked inventory for a sale.
func (s *saleService) reserve(ctx context.Context, uow portsrepo.UnitOfWork, inventory *domain.Inventory, saleID string, qty int, userID string) error {
	reservation, err := domain.NewReservation(inventory.ProductID, saleID, qty, s.reservationMinutes, userID, s.now())
	if err != nil {
		return err
	}
	if err := inventory.Reserve(qty); err != nil {
		return err
	}
	return uow.Reservations().SaveReservation(ctx, reservation)
}

// releaseProduct cancels the active reservations a sale holds on one product.
func (s *saleService) releaseProduct(ctx context.Context, uow portsrepo.UnitOfWork, saleID, productID, reason string) error {
	held, err := activeReservationsByProduct(ctx, uow, saleID)
	if err != nil {
		return err
	}
	return s.releaseReservations(ctx, uow, productID, held[productID], reason)
}

func (s *saleService) releaseReservations(ctx context.Context, uow portsrepo.UnitOfWork, productID string, reservations []*domain.Reservation, reason string) error {
	if len(reservations) == 0 {
		return nil
	}
	inventory, err := uow.Inventories().FindInventoryByProductIDForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	at := s.now()
	released := 0
	for _, r := range reservations {
		if err := r.Cancel(reason, at); err != nil {
			return err
		}
		if err := uow.Reservations().UpdateReservation(ctx, r); err != nil {
			return err
		}
		released += r.Quantity
	}
	if err := inventory.Release(released); err != nil {
		return err
	}
	return uow.Inventories().UpdateInventory(ctx, inventory)
}

// settleReservations confirms the reservations of one line so that exactly
// qty units are reserved on the locked inventory. Reservations past their
// expiry are expired instead, and any shortfall is reserved on the spot.
func (s *saleService) settleReservations(ctx context.Context, uow portsrepo.UnitOfWork, inventory *domain.Inventory, reservations []*domain.Reservation, qty int, at time.Time) error {
	held := 0
	for _, r := range reservations {
		if r.IsExpired(at) {
			if err := r.Expire(at); err != nil {
				return err
			}
			if err := inventory.Release(r.Quantity); err != nil {
				return err
			}
		} else {
			if err := r.Confirm(at); err != nil {
				return err
			}
			held += r.Quantity
		}
		if err := uow.Reservations().UpdateReservation(ctx, r); err != nil {
			return err
		}
	}
	switch {
	case held < qty:
		if err := domain.ValidateAvailable(inventory, qty-held); err != nil {
			return err
		}
		return inventory.Reserve(qty - held)
	case held > qty:
		return inventory.Release(held - qty)
	}
	return nil
}

// findOpenDrawer returns the open drawer locked for the transaction.
func findOpenDrawer(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.CashDrawer, error) {
	drawer, err := uow.CashDrawers().FindOpenCashDrawer(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeDrawerNotOpen, "no cash drawer is open")
	}
	return drawer, err
}

func activeReservationsByProduct(ctx context.Context, uow portsrepo.UnitOfWork, saleID string) (map[string][]*domain.Reservation, error) {
	reservations, err := uow.Reservations().ListActiveReservationsBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string][]*domain.Reservation)
	for _, r := range reservations {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}
	return byProduct, nil
}

// sortedLines returns the lines ordered by product so that inventory rows are
// always locked in the same order.
func sortedLines(sale *domain.Sale) []domain.LineItem {
	lines := sale.Items()
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lowStockEvent(inventory *domain.Inventory, userID string) events.Event {
	return events.Event{
		Type:        events.LowStock,
		AggregateID: inventory.ProductID,
		UserID:      userID,
		Attributes: map[string]any{
			"physical":        inventory.Physical(),
			"minimum":         inventory.Minimum(),
			"restockQuantity": domain.RestockQuantity(inventory),
		},
	}
}
