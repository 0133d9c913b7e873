package dto

import "github.com/hazemq/billpay_backend/internal/core/domain"

// UpdateCustomerRequest defines the data allowed for updating a customer.
type UpdateCustomerRequest struct {
	Name         *string `json:"name"`
	MobileNumber *string `json:"mobileNumber"`
	CompanyID    *string `json:"companyID"`
	Notes        *string `json:"notes"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// CustomerResponse is the outward shape of a customer record.
type CustomerResponse struct {
	CustomerID   string `json:"customerID"`
	PhoneNumber  string `json:"phoneNumber"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	CompanyID    string `json:"companyID,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ToCustomerResponse converts a domain.Customer to its response DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		PhoneNumber:  c.PhoneNumber,
		Name:         c.Name,
		MobileNumber: c.MobileNumber,
		CompanyID:    c.CompanyID,
		Notes:        c.Notes,
	}
}

// InquiryResponse answers a phone-number inquiry.
type InquiryResponse struct {
	Found     bool               `json:"found"`
	Count     int                `json:"count"`
	Customers []CustomerResponse `json:"customers,omitempty"`
}
