package models

// Customer is the persistence shape of a billed customer record.
type Customer struct {
	CustomerID   string `db:"customer_id"`
	PhoneNumber  string `db:"phone_number"`
	Name         string `db:"name"`
	MobileNumber string `db:"mobile_number"`
	CompanyID    string `db:"company_id"` // nullable in the DB
	Notes        string `db:"notes"`
	AuditFields
}
