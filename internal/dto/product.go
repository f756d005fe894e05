package dto

import (
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a new product.
type CreateProductRequest struct {
	Barcode      string          `json:"barcode" binding:"required,barcode"`
	Name         string          `json:"name" binding:"required,max=200"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	Cost         decimal.Decimal `json:"cost"`
	Taxed        bool            `json:"taxed"`
	InitialStock int             `json:"initialStock" binding:"min=0"`
	MinimumStock *int            `json:"minimumStock" binding:"omitempty,min=0"`
	MaximumStock *int            `json:"maximumStock" binding:"omitempty,min=1"`
}

// UpdatePricesRequest changes price and cost together.
type UpdatePricesRequest struct {
	SalePrice decimal.Decimal `json:"salePrice"`
	Cost      decimal.Decimal `json:"cost"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Cost          decimal.Decimal `json:"cost"`
	Taxed         bool            `json:"taxed"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		SalePrice:     p.SalePrice,
		Cost:          p.Cost,
		Taxed:         p.Taxed,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}
