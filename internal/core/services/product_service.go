package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/cache"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/shopspring/decimal"
)

// productService implements the ProductSvcFacade interface
type productService struct {
	BaseService
	cache    cache.ProductCache
	cacheTTL time.Duration
}

// NewProductService creates a product service backed by the given unit of work factory.
func NewProductService(factory portsrepo.UnitOfWorkFactory, options ...ServiceOption) portssvc.ProductSvcFacade {
	opts := buildOptions(options)
	return &productService{
		BaseService: newBaseService(factory, opts),
		cache:       opts.productCache,
		cacheTTL:    opts.cacheTTL,
	}
}

// Ensure productService implements the ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var product *domain.Product
	err := s.withTransaction(ctx, "product.get", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		p, err := uow.Products().FindProductByID(ctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get product", slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

// GetProductByBarcode serves scans. The cache is consulted first and refilled
// on a miss; cache errors degrade to a database lookup.
func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	normalized, err := domain.NormalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, normalized)
	if err != nil {
		s.LogError(ctx, err, "Product cache lookup failed", slog.String("barcode", normalized))
	} else if ok {
		return cached, nil
	}

	var product *domain.Product
	err = s.withTransaction(ctx, "product.get_by_barcode", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		p, err := uow.Products().FindProductByBarcode(ctx, normalized)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get product by barcode", slog.String("barcode", normalized))
		return nil, err
	}

	if err := s.cache.Set(ctx, product, s.cacheTTL); err != nil {
		s.LogError(ctx, err, "Failed to cache product", slog.String("barcode", normalized))
	}
	return product, nil
}

// CreateProduct stores the product and its inventory row in one transaction.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	minimum := domain.DefaultMinimumStock
	if req.MinimumStock != nil {
		minimum = *req.MinimumStock
	}
	maximum := domain.DefaultMaximumStock
	if req.MaximumStock != nil {
		maximum = *req.MaximumStock
	}

	var created *domain.Product
	err := s.withTransaction(ctx, "product.create", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		product, err := domain.NewProduct(domain.NewProductParams{
			Barcode:     req.Barcode,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			SalePrice:   req.SalePrice,
			Cost:        req.Cost,
			Taxed:       req.Taxed,
			CreatedBy:   userID,
		})
		if err != nil {
			return err
		}

		if _, err := uow.Products().FindProductByBarcode(ctx, product.Barcode); err == nil {
			return fmt.Errorf("%w: product with barcode %s", apperrors.ErrDuplicate, product.Barcode)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		inventory, err := domain.NewInventory(product.ProductID, req.InitialStock, minimum, maximum)
		if err != nil {
			return err
		}
		if err := uow.Products().SaveProduct(ctx, product); err != nil {
			return err
		}
		if err := uow.Inventories().SaveInventory(ctx, inventory); err != nil {
			return err
		}
		if req.InitialStock > 0 {
			movement, err := domain.NewStockMovement(domain.NewStockMovementParams{
				ProductID:   product.ProductID,
				Kind:        domain.StockEntry,
				Quantity:    req.InitialStock,
				StockBefore: 0,
				StockAfter:  req.InitialStock,
				Concept:     "initial stock",
				UserID:      userID,
				At:          s.now(),
			})
			if err != nil {
				return err
			}
			if err := uow.StockMovements().SaveStockMovement(ctx, movement); err != nil {
				return err
			}
		}
		created = product
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create product", slog.String("barcode", req.Barcode))
		return nil, err
	}

	s.LogInfo(ctx, "Product created",
		slog.String("product_id", created.ProductID),
		slog.String("barcode", created.Barcode))
	return created, nil
}

func (s *productService) UpdatePrices(ctx context.Context, productID string, price, cost decimal.Decimal, userID string) (*domain.Product, error) {
	var updated *domain.Product
	err := s.withTransaction(ctx, "product.update_prices", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		product, err := uow.Products().FindProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := product.UpdatePrices(price, cost, userID); err != nil {
			return err
		}
		if err := uow.Products().UpdateProduct(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update product prices", slog.String("product_id", productID))
		return nil, err
	}

	s.invalidate(ctx, updated.Barcode)
	s.LogInfo(ctx, "Product prices updated",
		slog.String("product_id", productID),
		slog.String("sale_price", price.StringFixed(2)))
	return updated, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, productID, userID string) error {
	var barcode string
	err := s.withTransaction(ctx, "product.deactivate", portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		product, err := uow.Products().FindProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := product.Deactivate(userID); err != nil {
			return err
		}
		barcode = product.Barcode
		return uow.Products().UpdateProduct(ctx, product)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to deactivate product", slog.String("product_id", productID))
		return err
	}

	s.invalidate(ctx, barcode)
	s.LogInfo(ctx, "Product deactivated", slog.String("product_id", productID))
	return nil
}

func (s *productService) invalidate(ctx context.Context, barcode string) {
	if err := s.cache.Invalidate(ctx, barcode); err != nil {
		s.LogError(ctx, err, "Failed to invalidate cached product", slog.String("barcode", barcode))
	}
}
