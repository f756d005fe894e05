package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type ReservationServiceTestSuite struct {
	checkoutSuite
}

func (suite *ReservationServiceTestSuite) expiry() time.Duration {
	return time.Duration(domain.DefaultReservationMinutes) * time.Minute
}

func (suite *ReservationServiceTestSuite) TestExpireReservations_ReleasesOnlyExpired() {
	product := suite.createProduct("7504000000015", 10, 2)
	suite.openDrawer()

	old := suite.newSale()
	_, err := suite.sales.ScanProduct(suite.ctx, old.SaleID, product.Barcode, 3, cashier)
	suite.Require().NoError(err)

	suite.clock.Advance(10 * time.Minute)
	recent := suite.newSale()
	_, err = suite.sales.ScanProduct(suite.ctx, recent.SaleID, product.Barcode, 2, cashier)
	suite.Require().NoError(err)
	suite.Equal(5, suite.stock(product.ProductID).Reserved())

	suite.clock.Advance(6 * time.Minute)
	expired, err := suite.reservations.ExpireReservations(suite.ctx, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Equal(1, expired)

	inv := suite.stock(product.ProductID)
	suite.Equal(2, inv.Reserved())
	suite.Equal(8, inv.Available())
	suite.Empty(suite.activeReservations(old.SaleID))
	suite.Len(suite.activeReservations(recent.SaleID), 1)

	expired, err = suite.reservations.ExpireReservations(suite.ctx, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Equal(0, expired)
}

func (suite *ReservationServiceTestSuite) TestExtendReservation() {
	product := suite.createProduct("7504000000022", 10, 2)
	suite.openDrawer()
	sale := suite.newSale()
	_, err := suite.sales.ScanProduct(suite.ctx, sale.SaleID, product.Barcode, 1, cashier)
	suite.Require().NoError(err)

	held := suite.activeReservations(sale.SaleID)
	suite.Require().Len(held, 1)
	originalExpiry := held[0].ExpiresAt

	extended, err := suite.reservations.ExtendReservation(suite.ctx, held[0].ReservationID, 10)
	suite.Require().NoError(err)
	suite.Equal(originalExpiry.Add(10*time.Minute), extended.ExpiresAt)

	suite.clock.Advance(suite.expiry() + time.Minute)
	expired, err := suite.reservations.ExpireReservations(suite.ctx, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Equal(0, expired)

	_, err = suite.reservations.ExtendReservation(suite.ctx, "missing", 10)
	suite.True(apperrors.IsCode(err, apperrors.CodeReservationNotFound))
}

func (suite *ReservationServiceTestSuite) TestPurgeReservations_KeepsActive() {
	product := suite.createProduct("7504000000039", 10, 2)
	suite.openDrawer()

	cancelled := suite.newSale()
	_, err := suite.sales.ScanProduct(suite.ctx, cancelled.SaleID, product.Barcode, 1, cashier)
	suite.Require().NoError(err)
	_, err = suite.sales.CancelSale(suite.ctx, cancelled.SaleID, "customer left", cashier)
	suite.Require().NoError(err)

	open := suite.newSale()
	_, err = suite.sales.ScanProduct(suite.ctx, open.SaleID, product.Barcode, 1, cashier)
	suite.Require().NoError(err)

	deleted, err := suite.reservations.PurgeReservations(suite.ctx, suite.clock.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(1), deleted)
	suite.Len(suite.activeReservations(open.SaleID), 1)

	deleted, err = suite.reservations.PurgeReservations(suite.ctx, suite.clock.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Zero(deleted)
}

func TestReservationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationServiceTestSuite))
}
