package mapping

import (
	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/SscSPs/pos_core/internal/models"
)

func ToModelProduct(d *domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		Barcode:     d.Barcode,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		SalePrice:   d.SalePrice,
		Cost:        d.Cost,
		Taxed:       d.Taxed,
		IsActive:    d.IsActive,
		Version:     d.Version,
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

func ToDomainProduct(m models.Product) *domain.Product {
	return &domain.Product{
		ProductID:   m.ProductID,
		Barcode:     m.Barcode,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		SalePrice:   m.SalePrice,
		Cost:        m.Cost,
		Taxed:       m.Taxed,
		IsActive:    m.IsActive,
		Version:     m.Version,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}
