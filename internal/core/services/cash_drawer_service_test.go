package services_test

import (
	"context"
	"testing"

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

type CashDrawerServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	publisher *MockPublisher
	service   portssvc.CashDrawerSvcFacade
}

func (suite *CashDrawerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.publisher = new(MockPublisher)
	suite.service = services.NewCashDrawerService(memory.NewStore(),
		services.WithEventPublisher(suite.publisher),
		services.WithRetry(1, noDelay))
}

func (suite *CashDrawerServiceTestSuite) TestOpenDrawer_OnlyOneAtATime() {
	suite.publisher.On("Publish", mock.Anything, isEvent(events.DrawerOpened)).Return(nil).Once()

	drawer, err := suite.service.OpenDrawer(suite.ctx, 1, d("500.00"), cashier)
	suite.Require().NoError(err)
	suite.True(drawer.IsOpen())
	suite.Equal("Caja 1", drawer.Name)
	suite.NotEmpty(drawer.SessionID())

	_, err = suite.service.OpenDrawer(suite.ctx, 2, d("100.00"), cashier)
	suite.Require().Error(err)
	suite.True(apperrors.IsCode(err, apperrors.CodeDrawerAlreadyOpen))

	_, err = suite.service.OpenDrawer(suite.ctx, 1, d("100.00"), cashier)
	suite.True(apperrors.IsCode(err, apperrors.CodeDrawerAlreadyOpen))

	suite.publisher.AssertExpectations(suite.T())
}

func (suite *CashDrawerServiceTestSuite) TestOpenDrawer_RejectsNegativeFloat() {
	_, err := suite.service.OpenDrawer(suite.ctx, 1, d("-1.00"), cashier)
	suite.Require().Error(err)
	suite.True(apperrors.IsCode(err, apperrors.CodeInvalidAmount))

	_, err = suite.service.GetOpenDrawer(suite.ctx)
	suite.True(apperrors.IsCode(err, apperrors.CodeDrawerNotFound))
}

func (suite *CashDrawerServiceTestSuite) TestCloseDrawer_WithShortage() {
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	opened, err := suite.service.OpenDrawer(suite.ctx, 3, d("200.00"), cashier)
	suite.Require().NoError(err)
	_, err = suite.service.DepositCash(suite.ctx, d("50.00"), "change from bank", cashier)
	suite.Require().NoError(err)
	_, err = suite.service.WithdrawCash(suite.ctx, d("20.00"), "supplies", cashier)
	suite.Require().NoError(err)

	closed, err := suite.service.CloseDrawer(suite.ctx, d("225.00"), cashier, "coins missing")
	suite.Require().NoError(err)
	suite.False(closed.IsOpen())
	suite.Require().NotNil(closed.Difference())
	suite.Equal("-5.00", closed.Difference().StringFixed(2))

	suite.publisher.AssertCalled(suite.T(), "Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.DrawerClosed && e.Attributes["expected"] == "230.00" && e.Attributes["difference"] == "-5.00"
	}))

	_, err = suite.service.WithdrawCash(suite.ctx, d("1.00"), "late", cashier)
	suite.True(apperrors.IsCode(err, apperrors.CodeDrawerNotOpen))

	reopened, err := suite.service.OpenDrawer(suite.ctx, 3, d("100.00"), cashier)
	suite.Require().NoError(err)
	suite.Equal(opened.DrawerID, reopened.DrawerID)
	suite.NotEqual(opened.SessionID(), reopened.SessionID())
	suite.Equal("100.00", reopened.CalculatedBalance().StringFixed(2))
}

func (suite *CashDrawerServiceTestSuite) TestWithdrawCash_CannotOverdraw() {
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	_, err := suite.service.OpenDrawer(suite.ctx, 1, d("10.00"), cashier)
	suite.Require().NoError(err)

	_, err = suite.service.WithdrawCash(suite.ctx, d("10.01"), "too much", cashier)
	suite.Require().Error(err)

	drawer, err := suite.service.GetOpenDrawer(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("10.00", drawer.CalculatedBalance().StringFixed(2))
}

func (suite *CashDrawerServiceTestSuite) TestListMovements_Pages() {
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	drawer, err := suite.service.OpenDrawer(suite.ctx, 1, d("100.00"), cashier)
	suite.Require().NoError(err)
	for _, amount := range []string{"1.00", "2.00", "3.00"} {
		_, err := suite.service.DepositCash(suite.ctx, d(amount), "float top up", cashier)
		suite.Require().NoError(err)
	}

	first, err := suite.service.ListMovements(suite.ctx, drawer.DrawerID, dto.ListParams{Limit: 3})
	suite.Require().NoError(err)
	suite.Require().Len(first.Movements, 3)
	suite.Equal("3.00", first.Movements[0].Amount.StringFixed(2))
	suite.NotEmpty(first.NextToken)

	second, err := suite.service.ListMovements(suite.ctx, drawer.DrawerID, dto.ListParams{Limit: 3, NextToken: first.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(second.Movements, 1)
	suite.Equal(domain.CashOpen, second.Movements[0].Kind)
	suite.Empty(second.NextToken)

	_, err = suite.service.ListMovements(suite.ctx, "missing", dto.ListParams{})
	suite.True(apperrors.IsCode(err, apperrors.CodeDrawerNotFound))
}

func TestCashDrawerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CashDrawerServiceTestSuite))
}
