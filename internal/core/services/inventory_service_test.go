package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/core/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/SscSPs/pos_core/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *testClock
	publisher *MockPublisher
	products  portssvc.ProductSvcFacade
	service   portssvc.InventorySvcFacade
	product   *domain.Product
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newTestClock()
	suite.publisher = new(MockPublisher)
	store := memory.NewStore()
	opts := []services.ServiceOption{
		services.WithClock(suite.clock.Now),
		services.WithEventPublisher(suite.publisher),
	}
	suite.products = services.NewProductService(store, opts...)
	suite.service = services.NewInventoryService(store, opts...)

	product, err := suite.products.CreateProduct(suite.ctx, dto.CreateProductRequest{
		Barcode:      "7502000000017",
		Name:         "Rice 1kg",
		SalePrice:    d("32.50"),
		Cost:         d("25.00"),
		InitialStock: 20,
		MinimumStock: intPtr(5),
		MaximumStock: intPtr(50),
	}, cashier)
	suite.Require().NoError(err)
	suite.product = product
}

func (suite *InventoryServiceTestSuite) movements() []domain.StockMovement {
	page, err := suite.service.ListMovements(suite.ctx, suite.product.ProductID, dto.ListParams{})
	suite.Require().NoError(err)
	return page.Movements
}

func (suite *InventoryServiceTestSuite) TestReceiveStock() {
	suite.clock.Advance(time.Second)
	inv, err := suite.service.ReceiveStock(suite.ctx, suite.product.ProductID, dto.ReceiveStockRequest{
		Quantity:  10,
		Concept:   "weekly delivery",
		Reference: "INV-123",
	}, cashier)
	suite.Require().NoError(err)
	suite.Equal(30, inv.Physical())

	movements := suite.movements()
	suite.Require().Len(movements, 2)
	suite.Equal(domain.StockEntry, movements[0].Kind)
	suite.Equal(20, movements[0].StockBefore)
	suite.Equal(30, movements[0].StockAfter)
	suite.Equal("INV-123", movements[0].Reference)

	_, err = suite.service.ReceiveStock(suite.ctx, suite.product.ProductID, dto.ReceiveStockRequest{Quantity: 21, Concept: "too much"}, cashier)
	suite.Require().Error(err)
	suite.Len(suite.movements(), 2)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock() {
	suite.clock.Advance(time.Second)
	inv, err := suite.service.AdjustStock(suite.ctx, suite.product.ProductID, 17, "cycle count", cashier)
	suite.Require().NoError(err)
	suite.Equal(17, inv.Physical())

	movements := suite.movements()
	suite.Require().Len(movements, 2)
	suite.Equal(domain.StockAdjustment, movements[0].Kind)
	suite.Equal(-3, movements[0].Quantity)

	_, err = suite.service.AdjustStock(suite.ctx, suite.product.ProductID, 17, "same count", cashier)
	suite.Require().NoError(err)
	suite.Len(suite.movements(), 2)
}

func (suite *InventoryServiceTestSuite) TestRegisterShrinkage_PublishesLowStockOnce() {
	suite.publisher.On("Publish", mock.Anything, isEvent(events.LowStock)).Return(nil).Once()

	_, err := suite.service.RegisterShrinkage(suite.ctx, suite.product.ProductID, 2, "", cashier)
	suite.Require().Error(err)
	suite.True(apperrors.IsCode(err, apperrors.CodeReasonRequired))

	_, err = suite.service.RegisterShrinkage(suite.ctx, suite.product.ProductID, 0, "broken", cashier)
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidQuantity))

	inv, err := suite.service.RegisterShrinkage(suite.ctx, suite.product.ProductID, 15, "water damage", cashier)
	suite.Require().NoError(err)
	suite.Equal(5, inv.Physical())
	suite.True(inv.IsLowStock())

	inv, err = suite.service.RegisterShrinkage(suite.ctx, suite.product.ProductID, 1, "expired", cashier)
	suite.Require().NoError(err)
	suite.Equal(4, inv.Physical())

	low, err := suite.service.ListLowStock(suite.ctx, 0)
	suite.Require().NoError(err)
	suite.Require().Len(low, 1)
	suite.Equal(suite.product.ProductID, low[0].ProductID)

	suite.publisher.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestUpdateLimits() {
	inv, err := suite.service.UpdateLimits(suite.ctx, suite.product.ProductID, 2, 100)
	suite.Require().NoError(err)
	suite.Equal(2, inv.Minimum())
	suite.Equal(100, inv.Maximum())

	_, err = suite.service.UpdateLimits(suite.ctx, suite.product.ProductID, 10, 5)
	suite.Require().Error(err)

	_, err = suite.service.GetStock(suite.ctx, "unknown")
	suite.True(apperrors.IsCode(err, apperrors.CodeInventoryNotFound))
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
