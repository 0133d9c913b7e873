package models

import "github.com/shopspring/decimal"

// Company is the persistence shape of a billing company.
type Company struct {
	CompanyID  string          `db:"company_id"`
	Name       string          `db:"name"`
	Category   string          `db:"category"`
	Commission decimal.Decimal `db:"commission"`
	IsActive   bool            `db:"is_active"`
	AuditFields
}
