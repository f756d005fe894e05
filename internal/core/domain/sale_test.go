package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardRate = decimal.RequireFromString("0.16")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProduct(t *testing.T, barcode, price string, taxed bool) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.NewProductParams{
		Barcode:   barcode,
		Name:      "Product " + barcode,
		Category:  "GENERAL",
		SalePrice: dec(price),
		Cost:      dec("1.00"),
		Taxed:     taxed,
		CreatedBy: "user-1",
	})
	require.NoError(t, err)
	return p
}

func newSale(t *testing.T) *domain.Sale {
	t.Helper()
	folio, err := domain.NewFolio(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	sale, err := domain.NewSale(folio, "user-1", standardRate)
	require.NoError(t, err)
	return sale
}

func TestSale_TotalsAndCashPayment(t *testing.T) {
	sale := newSale(t)
	require.NoError(t, sale.AddItem(newProduct(t, "7501000000001", "10.00", true), 2))

	assert.Equal(t, domain.SaleOpen, sale.Status())
	assert.True(t, dec("20.00").Equal(sale.Subtotal()))
	assert.True(t, dec("3.20").Equal(sale.Tax()))
	assert.True(t, dec("23.20").Equal(sale.Total()))

	require.NoError(t, sale.RegisterPayment(dec("25.00"), domain.PaymentCash, ""))
	assert.Equal(t, domain.SalePaid, sale.Status())
	assert.True(t, dec("1.80").Equal(sale.Change()), "change was %s", sale.Change())
	assert.NotNil(t, sale.PaidAt())
}

func TestSale_ExemptAndUntaxedLines(t *testing.T) {
	sale := newSale(t)
	untaxed := newProduct(t, "7501000000002", "5.00", false)
	exempt := newProduct(t, "7501000000003", "8.00", true)
	exempt.Category = "MEDICINAS"

	require.NoError(t, sale.AddItem(untaxed, 1))
	require.NoError(t, sale.AddItem(exempt, 1))

	assert.True(t, dec("13.00").Equal(sale.Total()))
	assert.True(t, sale.Tax().IsZero())
}

func TestSale_ItemLifecycle(t *testing.T) {
	sale := newSale(t)
	product := newProduct(t, "7501000000001", "10.00", true)

	require.NoError(t, sale.AddItem(product, 1))
	require.NoError(t, sale.AddItem(product, 2))
	items := sale.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	items[0].Quantity = 50
	line, ok := sale.Item(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity, "mutating a copy must not change the sale")

	require.NoError(t, sale.SetItemQuantity(product.ProductID, 5))
	require.NoError(t, sale.DecrementItem(product.ProductID, 1))
	assert.Equal(t, 4, sale.ItemCount())
	assert.True(t, apperrors.IsCode(sale.DecrementItem(product.ProductID, 4), apperrors.CodeInvalidQuantity))
	assert.True(t, apperrors.IsCode(sale.SetItemQuantity(product.ProductID, domain.MaxLineQuantity+1), apperrors.CodeInvalidQuantity))

	require.NoError(t, sale.RemoveItem(product.ProductID))
	assert.Equal(t, domain.SaleNew, sale.Status())
	assert.True(t, apperrors.IsCode(sale.RemoveItem(product.ProductID), apperrors.CodeProductNotFound))
}

func TestSale_RejectsInactiveProduct(t *testing.T) {
	sale := newSale(t)
	product := newProduct(t, "7501000000001", "10.00", true)
	require.NoError(t, product.Deactivate("user-1"))

	err := sale.AddItem(product, 1)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProductInactive))
	assert.Equal(t, domain.SaleNew, sale.Status())
}

func TestSale_PaymentRules(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		method    domain.PaymentMethod
		reference string
		wantCode  apperrors.Code
	}{
		{name: "cash exact", amount: "11.60", method: domain.PaymentCash},
		{name: "cash short", amount: "11.59", method: domain.PaymentCash, wantCode: apperrors.CodeInvalidAmount},
		{name: "debit exact with reference", amount: "11.60", method: domain.PaymentDebit, reference: "AUTH-1"},
		{name: "debit missing reference", amount: "11.60", method: domain.PaymentDebit, wantCode: apperrors.CodeInvalidArgument},
		{name: "credit overpaid", amount: "12.00", method: domain.PaymentCredit, reference: "AUTH-2", wantCode: apperrors.CodeInvalidAmount},
		{name: "mixed exact with reference", amount: "11.60", method: domain.PaymentMixed, reference: "AUTH-3"},
		{name: "mixed missing reference", amount: "11.60", method: domain.PaymentMixed, wantCode: apperrors.CodeInvalidArgument},
		{name: "unknown method", amount: "11.60", method: "CHEQUE", wantCode: apperrors.CodeInvalidArgument},
		{name: "zero amount", amount: "0", method: domain.PaymentCash, wantCode: apperrors.CodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := newSale(t)
			require.NoError(t, sale.AddItem(newProduct(t, "7501000000001", "10.00", true), 1))

			err := sale.RegisterPayment(dec(tt.amount), tt.method, tt.reference)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, domain.SalePaid, sale.Status())
				return
			}
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			assert.Equal(t, domain.SaleOpen, sale.Status())
			assert.Empty(t, sale.Payments())
		})
	}
}

func TestSale_StateMonotonicity(t *testing.T) {
	product := newProduct(t, "7501000000001", "10.00", true)

	t.Run("new sale cannot be paid", func(t *testing.T) {
		sale := newSale(t)
		err := sale.RegisterPayment(dec("10"), domain.PaymentCash, "")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeSaleWithoutItems))
	})

	t.Run("paid sale accepts only reverse", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.AddItem(product, 1))
		require.NoError(t, sale.RegisterPayment(dec("20"), domain.PaymentCash, ""))

		assert.True(t, apperrors.IsCode(sale.AddItem(product, 1), apperrors.CodeSaleAlreadyPaid))
		assert.True(t, apperrors.IsCode(sale.RemoveItem(product.ProductID), apperrors.CodeSaleAlreadyPaid))
		assert.True(t, apperrors.IsCode(sale.RegisterPayment(dec("20"), domain.PaymentCash, ""), apperrors.CodeSaleAlreadyPaid))
		assert.True(t, apperrors.IsCode(sale.Cancel("oops", "user-1"), apperrors.CodeSaleAlreadyPaid))
		assert.True(t, apperrors.IsCode(sale.Reverse("", "user-1"), apperrors.CodeReasonRequired))

		require.NoError(t, sale.Reverse("customer returned goods", "user-2"))
		assert.Equal(t, domain.SaleCancelled, sale.Status())
		assert.True(t, sale.WasReversed())
		assert.Len(t, sale.Items(), 1)
	})

	t.Run("cancelled sale is terminal", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.AddItem(product, 1))
		require.NoError(t, sale.Cancel("customer left", "user-1"))

		assert.True(t, sale.IsTerminal())
		assert.True(t, apperrors.IsCode(sale.AddItem(product, 1), apperrors.CodeSaleAlreadyCancelled))
		assert.True(t, apperrors.IsCode(sale.Cancel("again", "user-1"), apperrors.CodeSaleAlreadyCancelled))
		assert.True(t, apperrors.IsCode(sale.Reverse("again", "user-1"), apperrors.CodeSaleAlreadyCancelled))
	})

	t.Run("open sale cannot be reversed", func(t *testing.T) {
		sale := newSale(t)
		require.NoError(t, sale.AddItem(product, 1))
		assert.True(t, apperrors.IsCode(sale.Reverse("x", "user-1"), apperrors.CodeSaleNotPaid))
	})
}

func TestSale_MarkFinalized(t *testing.T) {
	sale := newSale(t)
	at := time.Date(2024, 3, 15, 10, 5, 0, 0, time.UTC)
	require.NoError(t, sale.AddItem(newProduct(t, "7501000000001", "10.00", true), 1))

	assert.True(t, apperrors.IsCode(sale.MarkFinalized(at), apperrors.CodeSaleNotPaid))

	require.NoError(t, sale.RegisterPayment(dec("20.00"), domain.PaymentCash, ""))
	require.NoError(t, sale.MarkFinalized(at))
	assert.True(t, sale.IsFinalized())
	assert.Equal(t, at, *sale.FinalizedAt())

	assert.True(t, apperrors.IsCode(sale.MarkFinalized(at), apperrors.CodeInvalidSaleState))

	restored, err := domain.RestoreSale(sale.Snapshot())
	require.NoError(t, err)
	assert.True(t, restored.IsFinalized())
}

func TestSale_SnapshotRoundTrip(t *testing.T) {
	sale := newSale(t)
	require.NoError(t, sale.AddItem(newProduct(t, "7501000000001", "10.00", true), 2))
	require.NoError(t, sale.RegisterPayment(dec("30.00"), domain.PaymentCash, ""))

	restored, err := domain.RestoreSale(sale.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, sale.Folio.String(), restored.Folio.String())
	assert.Equal(t, sale.Status(), restored.Status())
	assert.True(t, sale.Total().Equal(restored.Total()))
	assert.True(t, sale.Change().Equal(restored.Change()))
}

func TestSale_CheckpointRestoresChildren(t *testing.T) {
	sale := newSale(t)
	product := newProduct(t, "7501000000001", "10.00", true)
	require.NoError(t, sale.AddItem(product, 1))

	restore := sale.Checkpoint()
	require.NoError(t, sale.SetItemQuantity(product.ProductID, 7))
	require.NoError(t, sale.RegisterPayment(dec("100"), domain.PaymentCash, ""))
	restore()

	assert.Equal(t, domain.SaleOpen, sale.Status())
	assert.Equal(t, 1, sale.ItemCount())
	assert.Empty(t, sale.Payments())
}
