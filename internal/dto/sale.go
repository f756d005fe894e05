package dto

import (
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScanProductRequest adds units of a product to a sale.
type ScanProductRequest struct {
	Barcode  string `json:"barcode" binding:"required,barcode"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=9999"`
}

// SetItemQuantityRequest replaces the quantity of a line.
type SetItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=9999"`
}

// RegisterPaymentRequest pays a sale.
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal      `json:"amount"`
	Method    domain.PaymentMethod `json:"method" binding:"required,oneof=CASH DEBIT CREDIT TRANSFER MIXED"`
	Reference string               `json:"reference" binding:"max=100"`
}

// ReasonRequest carries the mandatory reason of a cancellation or reversal.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListSalesParams selects the sales of one day.
type ListSalesParams struct {
	ListParams
	Date time.Time `form:"date" time_format:"2006-01-02"`
}

// LineItemResponse defines the data returned for a sale line.
type LineItemResponse struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Barcode     string          `json:"barcode"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID string               `json:"paymentID"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
	Reference string               `json:"reference,omitempty"`
	Change    decimal.Decimal      `json:"change"`
	PaidAt    time.Time            `json:"paidAt"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID       string             `json:"saleID"`
	Folio        string             `json:"folio"`
	Status       domain.SaleStatus  `json:"status"`
	UserID       string             `json:"userID"`
	Items        []LineItemResponse `json:"items"`
	Payments     []PaymentResponse  `json:"payments"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"tax"`
	Total        decimal.Decimal    `json:"total"`
	AmountPaid   decimal.Decimal    `json:"amountPaid"`
	Change       decimal.Decimal    `json:"change"`
	ItemCount    int                `json:"itemCount"`
	CreatedAt    time.Time          `json:"createdAt"`
	PaidAt       *time.Time         `json:"paidAt,omitempty"`
	FinalizedAt  *time.Time         `json:"finalizedAt,omitempty"`
	CancelledAt  *time.Time         `json:"cancelledAt,omitempty"`
	CancelReason string             `json:"cancelReason,omitempty"`
	Reversed     bool               `json:"reversed"`
}

// ListSalesResponse is a page of sales.
type ListSalesResponse struct {
	Sales     []SaleResponse `json:"sales"`
	NextToken string         `json:"nextToken,omitempty"`
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := s.Items()
	payments := s.Payments()
	resp := SaleResponse{
		SaleID:       s.SaleID,
		Folio:        s.Folio.String(),
		Status:       s.Status(),
		UserID:       s.UserID,
		Items:        make([]LineItemResponse, len(items)),
		Payments:     make([]PaymentResponse, len(payments)),
		Subtotal:     s.Subtotal(),
		Tax:          s.Tax(),
		Total:        s.Total(),
		AmountPaid:   s.AmountPaid(),
		Change:       s.Change(),
		ItemCount:    s.ItemCount(),
		CreatedAt:    s.CreatedAt(),
		PaidAt:       s.PaidAt(),
		FinalizedAt:  s.FinalizedAt(),
		CancelledAt:  s.CancelledAt(),
		CancelReason: s.CancelReason(),
		Reversed:     s.WasReversed(),
	}
	for i, l := range items {
		resp.Items[i] = LineItemResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Barcode:     l.Barcode,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal(),
			Tax:         l.Tax(),
			Total:       l.Total(),
		}
	}
	for i, p := range payments {
		resp.Payments[i] = PaymentResponse{
			PaymentID: p.PaymentID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			Change:    p.Change,
			PaidAt:    p.PaidAt,
		}
	}
	return resp
}

// ToSaleResponses converts a slice of sales.
func ToSaleResponses(sales []*domain.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i, s := range sales {
		responses[i] = ToSaleResponse(s)
	}
	return responses
}
