package domain

// Customer is the reference record for a billed phone number. Customers are
// merged-or-inserted by phone number whenever a payment request names a phone
// not already on file; they never take part in money movement.
type Customer struct {
	CustomerID   string `json:"customerID"`
	PhoneNumber  string `json:"phoneNumber"` // upsert key
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	CompanyID    string `json:"companyID,omitempty"` // nullable reference
	Notes        string `json:"notes,omitempty"`
	AuditFields
}
