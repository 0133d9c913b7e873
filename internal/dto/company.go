package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to register a billing company.
type CreateCompanyRequest struct {
	Name       string          `json:"name" binding:"required"`
	Category   string          `json:"category"`
	Commission decimal.Decimal `json:"commission"`
}

// UpdateCompanyRequest defines the data allowed for updating a company.
type UpdateCompanyRequest struct {
	Name       *string          `json:"name"`
	Category   *string          `json:"category"`
	Commission *decimal.Decimal `json:"commission"`
	IsActive   *bool            `json:"isActive"`
}

// CompanyResponse is the outward shape of a billing company.
type CompanyResponse struct {
	CompanyID  string          `json:"companyID"`
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	Commission decimal.Decimal `json:"commission"`
	IsActive   bool            `json:"isActive"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		Category:   c.Category,
		Commission: c.Commission,
		IsActive:   c.IsActive,
	}
}
