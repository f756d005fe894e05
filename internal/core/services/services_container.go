package services

import (
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, factory portsrepo.UnitOfWorkFactory, options ...ServiceOption) *portssvc.ServiceContainer {
	// Configuration first so that explicit options can override it
	opts := append([]ServiceOption{
		WithTaxRate(cfg.TaxRate),
		WithReservationMinutes(cfg.ReservationExpiryMinutes),
	}, options...)

	container := &portssvc.ServiceContainer{}

	// The product service owns the barcode cache, the sale service reads through it
	container.Product = NewProductService(factory, opts...)
	container.Sale = NewSaleService(factory, container.Product, opts...)
	container.CashDrawer = NewCashDrawerService(factory, opts...)
	container.Inventory = NewInventoryService(factory, opts...)
	container.Reservation = NewReservationService(factory, opts...)

	return container
}
