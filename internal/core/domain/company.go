package domain

import "github.com/shopspring/decimal"

// Company is a billing company (internet, utilities, ...) that payment
// requests are submitted against. Pure reference data.
type Company struct {
	CompanyID  string          `json:"companyID"`
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	Commission decimal.Decimal `json:"commission"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}
