package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/core/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const cacheTTL = time.Minute

type ProductServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockCache *MockProductCache
	service   portssvc.ProductSvcFacade
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockCache = new(MockProductCache)
	suite.service = services.NewProductService(memory.NewStore(),
		services.WithProductCache(suite.mockCache, cacheTTL))
}

func (suite *ProductServiceTestSuite) create(barcode string) *domain.Product {
	product, err := suite.service.CreateProduct(suite.ctx, dto.CreateProductRequest{
		Barcode:      barcode,
		Name:         "Milk 1L",
		Category:     "dairy",
		SalePrice:    d("28.00"),
		Cost:         d("21.00"),
		Taxed:        false,
		InitialStock: 12,
	}, cashier)
	suite.Require().NoError(err)
	return product
}

func (suite *ProductServiceTestSuite) TestCreateProduct_DuplicateBarcode() {
	product := suite.create("7503000000016")
	suite.NotEmpty(product.ProductID)
	suite.True(product.IsActive)
	suite.Equal(cashier, product.CreatedBy)

	_, err := suite.service.CreateProduct(suite.ctx, dto.CreateProductRequest{
		Barcode:   "7503000000016",
		Name:      "Another milk",
		SalePrice: d("10.00"),
		Cost:      d("5.00"),
	}, cashier)
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrDuplicate))
}

func (suite *ProductServiceTestSuite) TestCreateProduct_Validation() {
	_, err := suite.service.CreateProduct(suite.ctx, dto.CreateProductRequest{
		Barcode:   "12AB",
		Name:      "Bad barcode",
		SalePrice: d("1.00"),
	}, cashier)
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidArgument))

	_, err = suite.service.CreateProduct(suite.ctx, dto.CreateProductRequest{
		Barcode:      "7503000000023",
		Name:         "Over capacity",
		SalePrice:    d("1.00"),
		InitialStock: domain.DefaultMaximumStock + 1,
	}, cashier)
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidQuantity))
}

func (suite *ProductServiceTestSuite) TestGetProductByBarcode_CacheMissFillsCache() {
	product := suite.create("7503000000030")

	suite.mockCache.On("Get", suite.ctx, product.Barcode).Return(nil, false, nil).Once()
	suite.mockCache.On("Set", suite.ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ProductID == product.ProductID
	}), cacheTTL).Return(nil).Once()

	found, err := suite.service.GetProductByBarcode(suite.ctx, " 7503000000030 ")
	suite.Require().NoError(err)
	suite.Equal(product.ProductID, found.ProductID)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestGetProductByBarcode_CacheHitSkipsStore() {
	cached := &domain.Product{ProductID: "cached", Barcode: "7503000000047", IsActive: true}
	suite.mockCache.On("Get", suite.ctx, cached.Barcode).Return(cached, true, nil).Once()

	found, err := suite.service.GetProductByBarcode(suite.ctx, cached.Barcode)
	suite.Require().NoError(err)
	suite.Same(cached, found)
	suite.mockCache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetProductByBarcode_CacheErrorFallsBack() {
	product := suite.create("7503000000054")
	suite.mockCache.On("Get", suite.ctx, product.Barcode).Return(nil, false, errors.New("connection refused")).Once()
	suite.mockCache.On("Set", suite.ctx, mock.Anything, cacheTTL).Return(errors.New("connection refused")).Once()

	found, err := suite.service.GetProductByBarcode(suite.ctx, product.Barcode)
	suite.Require().NoError(err)
	suite.Equal(product.ProductID, found.ProductID)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestGetProductByBarcode_NotFound() {
	suite.mockCache.On("Get", suite.ctx, "7503000000061").Return(nil, false, nil).Once()

	_, err := suite.service.GetProductByBarcode(suite.ctx, "7503000000061")
	suite.Require().Error(err)
	suite.True(apperrors.IsCode(err, apperrors.CodeProductNotFound))
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *ProductServiceTestSuite) TestUpdatePricesAndDeactivate_InvalidateCache() {
	product := suite.create("7503000000078")
	suite.mockCache.On("Invalidate", suite.ctx, product.Barcode).Return(nil).Twice()

	updated, err := suite.service.UpdatePrices(suite.ctx, product.ProductID, d("30.00"), d("22.00"), "manager")
	suite.Require().NoError(err)
	suite.Equal("30.00", updated.SalePrice.StringFixed(2))
	suite.Equal("manager", updated.LastUpdatedBy)

	_, err = suite.service.UpdatePrices(suite.ctx, product.ProductID, d("-1.00"), d("22.00"), "manager")
	suite.Require().Error(err)

	suite.Require().NoError(suite.service.DeactivateProduct(suite.ctx, product.ProductID, "manager"))
	found, err := suite.service.GetProduct(suite.ctx, product.ProductID)
	suite.Require().NoError(err)
	suite.False(found.IsActive)
	suite.Equal("30.00", found.SalePrice.StringFixed(2))

	suite.mockCache.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
