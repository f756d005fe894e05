package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
)

type productRepository struct{ uow *UnitOfWork }

func (r *productRepository) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	if p, ok := r.uow.products[productID]; ok {
		return p, nil
	}
	stored, ok := data.products[productID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeProductNotFound, "product %s not found", productID)
	}
	p := stored.Clone()
	r.uow.Track(p)
	r.uow.products[productID] = p
	return p, nil
}

func (r *productRepository) FindProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	for id, p := range data.products {
		if p.Barcode == barcode {
			return r.FindProductByID(ctx, id)
		}
	}
	return nil, apperrors.Newf(apperrors.CodeProductNotFound, "product with barcode %s not found", barcode)
}

func (r *productRepository) SaveProduct(_ context.Context, product *domain.Product) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	if _, ok := data.products[product.ProductID]; ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
	}
	for _, p := range data.products {
		if p.Barcode == product.Barcode {
			return fmt.Errorf("%w: product with barcode %s", apperrors.ErrDuplicate, product.Barcode)
		}
	}
	r.uow.Track(product)
	product.Version = 1
	data.products[product.ProductID] = *product.Clone()
	r.uow.products[product.ProductID] = product
	return nil
}

func (r *productRepository) UpdateProduct(_ context.Context, product *domain.Product) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	stored, ok := data.products[product.ProductID]
	if !ok {
		return apperrors.Newf(apperrors.CodeProductNotFound, "product %s not found", product.ProductID)
	}
	if err := checkVersion("product", product.ProductID, stored.Version, product.Version); err != nil {
		return err
	}
	if _, loaded := r.uow.products[product.ProductID]; !loaded {
		r.uow.Track(product)
	}
	product.Version++
	data.products[product.ProductID] = *product.Clone()
	return nil
}

type inventoryRepository struct{ uow *UnitOfWork }

func (r *inventoryRepository) FindInventoryByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	return r.FindInventoryByProductIDForUpdate(ctx, productID)
}

// FindInventoryByProductIDForUpdate needs no explicit lock: the transaction
// already owns the store.
func (r *inventoryRepository) FindInventoryByProductIDForUpdate(_ context.Context, productID string) (*domain.Inventory, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	if inv, ok := r.uow.inventories[productID]; ok {
		return inv, nil
	}
	stored, ok := data.inventories[productID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeInventoryNotFound, "no inventory for product %s", productID)
	}
	inv := domain.RestoreInventory(stored)
	r.uow.Track(inv)
	r.uow.inventories[productID] = inv
	return inv, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context, limit int) ([]*domain.Inventory, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	var low []domain.InventorySnapshot
	for _, snap := range data.inventories {
		if snap.Physical <= snap.Minimum {
			low = append(low, snap)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Physical != low[j].Physical {
			return low[i].Physical < low[j].Physical
		}
		return low[i].ProductID < low[j].ProductID
	})
	if len(low) > limit {
		low = low[:limit]
	}
	result := make([]*domain.Inventory, 0, len(low))
	for _, snap := range low {
		inv, err := r.FindInventoryByProductID(ctx, snap.ProductID)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, nil
}

func (r *inventoryRepository) SaveInventory(_ context.Context, inventory *domain.Inventory) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	if _, ok := data.inventories[inventory.ProductID]; ok {
		return fmt.Errorf("%w: inventory for product %s", apperrors.ErrDuplicate, inventory.ProductID)
	}
	if _, ok := data.products[inventory.ProductID]; !ok {
		return apperrors.Newf(apperrors.CodeProductNotFound, "product %s not found", inventory.ProductID)
	}
	r.uow.Track(inventory)
	inventory.Version = 1
	data.inventories[inventory.ProductID] = inventory.Snapshot()
	r.uow.inventories[inventory.ProductID] = inventory
	return nil
}

func (r *inventoryRepository) UpdateInventory(_ context.Context, inventory *domain.Inventory) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	stored, ok := data.inventories[inventory.ProductID]
	if !ok {
		return apperrors.Newf(apperrors.CodeInventoryNotFound, "no inventory for product %s", inventory.ProductID)
	}
	if err := checkVersion("inventory", inventory.ProductID, stored.Version, inventory.Version); err != nil {
		return err
	}
	if _, loaded := r.uow.inventories[inventory.ProductID]; !loaded {
		r.uow.Track(inventory)
	}
	inventory.Version++
	data.inventories[inventory.ProductID] = inventory.Snapshot()
	return nil
}

type reservationRepository struct{ uow *UnitOfWork }

func (r *reservationRepository) FindReservationByID(_ context.Context, reservationID string) (*domain.Reservation, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	if res, ok := r.uow.reservations[reservationID]; ok {
		return res, nil
	}
	stored, ok := data.reservations[reservationID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeReservationNotFound, "reservation %s not found", reservationID)
	}
	res := &stored
	r.uow.Track(res)
	r.uow.reservations[reservationID] = res
	return res, nil
}

func (r *reservationRepository) ListActiveReservationsBySale(ctx context.Context, saleID string) ([]*domain.Reservation, error) {
	return r.list(ctx, func(res domain.Reservation) bool {
		return res.SaleID == saleID && res.Status == domain.ReservationActive
	}, func(a, b domain.Reservation) bool { return a.CreatedAt.Before(b.CreatedAt) }, 0)
}

func (r *reservationRepository) ListExpiredReservations(ctx context.Context, at time.Time, limit int) ([]*domain.Reservation, error) {
	return r.list(ctx, func(res domain.Reservation) bool {
		return res.Status == domain.ReservationActive && res.ExpiresAt.Before(at)
	}, func(a, b domain.Reservation) bool { return a.ExpiresAt.Before(b.ExpiresAt) }, limit)
}

func (r *reservationRepository) list(ctx context.Context, match func(domain.Reservation) bool, less func(a, b domain.Reservation) bool, limit int) ([]*domain.Reservation, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	var matched []domain.Reservation
	for _, res := range data.reservations {
		if match(res) {
			matched = append(matched, res)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if less(matched[i], matched[j]) {
			return true
		}
		if less(matched[j], matched[i]) {
			return false
		}
		return matched[i].ReservationID < matched[j].ReservationID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	result := make([]*domain.Reservation, 0, len(matched))
	for _, res := range matched {
		found, err := r.FindReservationByID(ctx, res.ReservationID)
		if err != nil {
			return nil, err
		}
		result = append(result, found)
	}
	return result, nil
}

func (r *reservationRepository) SaveReservation(_ context.Context, reservation *domain.Reservation) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	if _, ok := data.reservations[reservation.ReservationID]; ok {
		return fmt.Errorf("%w: reservation %s", apperrors.ErrDuplicate, reservation.ReservationID)
	}
	r.uow.Track(reservation)
	reservation.Version = 1
	data.reservations[reservation.ReservationID] = *reservation
	r.uow.reservations[reservation.ReservationID] = reservation
	return nil
}

func (r *reservationRepository) UpdateReservation(_ context.Context, reservation *domain.Reservation) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	stored, ok := data.reservations[reservation.ReservationID]
	if !ok {
		return apperrors.Newf(apperrors.CodeReservationNotFound, "reservation %s not found", reservation.ReservationID)
	}
	if err := checkVersion("reservation", reservation.ReservationID, stored.Version, reservation.Version); err != nil {
		return err
	}
	if _, loaded := r.uow.reservations[reservation.ReservationID]; !loaded {
		r.uow.Track(reservation)
	}
	reservation.Version++
	data.reservations[reservation.ReservationID] = *reservation
	return nil
}

func (r *reservationRepository) DeleteTerminalReservationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	data, err := r.uow.data()
	if err != nil {
		return 0, err
	}
	var deleted int64
	for id, res := range data.reservations {
		if res.Status != domain.ReservationActive && res.CreatedAt.Before(cutoff) {
			delete(data.reservations, id)
			deleted++
		}
	}
	return deleted, nil
}

type saleRepository struct{ uow *UnitOfWork }

func (r *saleRepository) FindSaleByID(_ context.Context, saleID string) (*domain.Sale, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	if sale, ok := r.uow.sales[saleID]; ok {
		return sale, nil
	}
	stored, ok := data.sales[saleID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeSaleNotFound, "sale %s not found", saleID)
	}
	sale, err := domain.RestoreSale(stored)
	if err != nil {
		return nil, err
	}
	r.uow.Track(sale)
	r.uow.sales[saleID] = sale
	return sale, nil
}

func (r *saleRepository) FindSaleByFolio(ctx context.Context, folio string) (*domain.Sale, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	for id, snap := range data.sales {
		if snap.Folio == folio {
			return r.FindSaleByID(ctx, id)
		}
	}
	return nil, apperrors.Newf(apperrors.CodeSaleNotFound, "sale with folio %s not found", folio)
}

func (r *saleRepository) ListSalesByDate(ctx context.Context, day time.Time, limit int, after *portsrepo.PageCursor) ([]*domain.Sale, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var matched []domain.SaleSnapshot
	for _, snap := range data.sales {
		created := snap.CreatedAt.UTC()
		if created.Before(start) || !created.Before(end) {
			continue
		}
		if after != nil && !newerFirstBefore(snap.CreatedAt, snap.SaleID, after) {
			continue
		}
		matched = append(matched, snap)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].SaleID, matched[j].CreatedAt, matched[j].SaleID)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	result := make([]*domain.Sale, 0, len(matched))
	for _, snap := range matched {
		sale, err := r.FindSaleByID(ctx, snap.SaleID)
		if err != nil {
			return nil, err
		}
		result = append(result, sale)
	}
	return result, nil
}

func (r *saleRepository) SaveSale(_ context.Context, sale *domain.Sale) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	if _, ok := data.sales[sale.SaleID]; ok {
		return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, sale.SaleID)
	}
	folio := sale.Folio.String()
	for _, snap := range data.sales {
		if snap.Folio == folio {
			return fmt.Errorf("%w: folio %s", apperrors.ErrDuplicate, folio)
		}
	}
	r.uow.Track(sale)
	sale.Version = 1
	data.sales[sale.SaleID] = sale.Snapshot()
	r.uow.sales[sale.SaleID] = sale
	return nil
}

func (r *saleRepository) UpdateSale(_ context.Context, sale *domain.Sale) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	stored, ok := data.sales[sale.SaleID]
	if !ok {
		return apperrors.Newf(apperrors.CodeSaleNotFound, "sale %s not found", sale.SaleID)
	}
	if err := checkVersion("sale", sale.SaleID, stored.Version, sale.Version); err != nil {
		return err
	}
	if _, loaded := r.uow.sales[sale.SaleID]; !loaded {
		r.uow.Track(sale)
	}
	sale.Version++
	data.sales[sale.SaleID] = sale.Snapshot()
	return nil
}

type cashDrawerRepository struct{ uow *UnitOfWork }

func (r *cashDrawerRepository) FindCashDrawerByID(_ context.Context, drawerID string) (*domain.CashDrawer, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	if drawer, ok := r.uow.drawers[drawerID]; ok {
		return drawer, nil
	}
	stored, ok := data.drawers[drawerID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeDrawerNotFound, "cash drawer %s not found", drawerID)
	}
	var session []domain.CashMovement
	if stored.SessionID != "" {
		for _, m := range data.cashMovements[drawerID] {
			if m.SessionID == stored.SessionID {
				session = append(session, m)
			}
		}
	}
	stored.Movements = session
	drawer := domain.RestoreCashDrawer(stored)
	r.uow.Track(drawer)
	r.uow.drawers[drawerID] = drawer
	return drawer, nil
}

func (r *cashDrawerRepository) FindCashDrawerByNumber(ctx context.Context, number int) (*domain.CashDrawer, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	for id, snap := range data.drawers {
		if snap.Number == number {
			return r.FindCashDrawerByID(ctx, id)
		}
	}
	return nil, apperrors.Newf(apperrors.CodeDrawerNotFound, "cash drawer %d not found", number)
}

func (r *cashDrawerRepository) FindOpenCashDrawer(ctx context.Context) (*domain.CashDrawer, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	for id, snap := range data.drawers {
		if snap.IsOpen {
			return r.FindCashDrawerByID(ctx, id)
		}
	}
	return nil, apperrors.New(apperrors.CodeDrawerNotFound, "no open cash drawer")
}

func (r *cashDrawerRepository) ListCashMovements(_ context.Context, drawerID string, limit int, after *portsrepo.PageCursor) ([]domain.CashMovement, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	var matched []domain.CashMovement
	for _, m := range data.cashMovements[drawerID] {
		if after == nil || newerFirstBefore(m.CreatedAt, m.MovementID, after) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].MovementID, matched[j].CreatedAt, matched[j].MovementID)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *cashDrawerRepository) SaveCashDrawer(_ context.Context, drawer *domain.CashDrawer) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	if _, ok := data.drawers[drawer.DrawerID]; ok {
		return fmt.Errorf("%w: cash drawer %s", apperrors.ErrDuplicate, drawer.DrawerID)
	}
	for _, snap := range data.drawers {
		if snap.Number == drawer.Number {
			return fmt.Errorf("%w: cash drawer number %d", apperrors.ErrDuplicate, drawer.Number)
		}
	}
	if err := r.checkSingleOpen(data, drawer); err != nil {
		return err
	}
	r.uow.Track(drawer)
	drawer.Version = 1
	r.store(data, drawer)
	r.uow.drawers[drawer.DrawerID] = drawer
	return nil
}

func (r *cashDrawerRepository) UpdateCashDrawer(_ context.Context, drawer *domain.CashDrawer) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	stored, ok := data.drawers[drawer.DrawerID]
	if !ok {
		return apperrors.Newf(apperrors.CodeDrawerNotFound, "cash drawer %s not found", drawer.DrawerID)
	}
	if err := checkVersion("cash drawer", drawer.DrawerID, stored.Version, drawer.Version); err != nil {
		return err
	}
	if err := r.checkSingleOpen(data, drawer); err != nil {
		return err
	}
	if _, loaded := r.uow.drawers[drawer.DrawerID]; !loaded {
		r.uow.Track(drawer)
	}
	drawer.Version++
	r.store(data, drawer)
	return nil
}

// checkSingleOpen mirrors the partial unique index on open drawers.
func (r *cashDrawerRepository) checkSingleOpen(data *state, drawer *domain.CashDrawer) error {
	if !drawer.IsOpen() {
		return nil
	}
	for id, snap := range data.drawers {
		if id != drawer.DrawerID && snap.IsOpen {
			return apperrors.Newf(apperrors.CodeDrawerAlreadyOpen, "drawer %d is already open", snap.Number)
		}
	}
	return nil
}

func (r *cashDrawerRepository) store(data *state, drawer *domain.CashDrawer) {
	snap := drawer.Snapshot()
	snap.Movements = nil
	data.drawers[drawer.DrawerID] = snap
	if pending := drawer.PendingMovements(); len(pending) > 0 {
		data.cashMovements[drawer.DrawerID] = appendClone(data.cashMovements[drawer.DrawerID], pending...)
	}
	drawer.MarkMovementsPersisted()
}

type stockMovementRepository struct{ uow *UnitOfWork }

func (r *stockMovementRepository) SaveStockMovement(_ context.Context, movement domain.StockMovement) error {
	data, err := r.uow.data()
	if err != nil {
		return err
	}
	data.stockMovements[movement.ProductID] = appendClone(data.stockMovements[movement.ProductID], movement)
	return nil
}

func (r *stockMovementRepository) ListStockMovements(_ context.Context, productID string, limit int, after *portsrepo.PageCursor) ([]domain.StockMovement, error) {
	data, err := r.uow.data()
	if err != nil {
		return nil, err
	}
	var matched []domain.StockMovement
	for _, m := range data.stockMovements[productID] {
		if after == nil || newerFirstBefore(m.CreatedAt, m.MovementID, after) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].MovementID, matched[j].CreatedAt, matched[j].MovementID)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type folioRepository struct{ uow *UnitOfWork }

func (r *folioRepository) NextFolioSequence(_ context.Context, day time.Time) (int, error) {
	data, err := r.uow.data()
	if err != nil {
		return 0, err
	}
	key := day.UTC().Format("20060102")
	data.folios[key]++
	return data.folios[key], nil
}

// newerFirst orders rows by creation time then id, both descending.
func newerFirst(aTime time.Time, aID string, bTime time.Time, bID string) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}

// newerFirstBefore reports whether a row comes after the cursor in newest-first order.
func newerFirstBefore(createdAt time.Time, id string, after *portsrepo.PageCursor) bool {
	return newerFirst(after.CreatedAt, after.ID, createdAt, id)
}
