// Package mapping converts between domain entities and their persistence models.
package mapping

import (
	"github.com/hazemq/billpay_backend/internal/core/domain"
	"github.com/hazemq/billpay_backend/internal/models"
)

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(a models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

// ToModelUser converts a domain user for DB storage.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:            d.UserID,
		Name:              d.Name,
		Phone:             d.Phone,
		PasswordHash:      d.PasswordHash,
		Role:              string(d.Role),
		Balance:           d.Balance,
		IsActive:          d.IsActive,
		AuditFields:       toModelAudit(d.AuditFields),
		PasswordChangedAt: d.PasswordChangedAt,
		SessionValidAfter: d.SessionValidAfter,
	}
}

// ToDomainUser converts a DB user row to the domain shape.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:            m.UserID,
		Name:              m.Name,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Role:              domain.UserRole(m.Role),
		Balance:           m.Balance,
		IsActive:          m.IsActive,
		AuditFields:       toDomainAudit(m.AuditFields),
		PasswordChangedAt: m.PasswordChangedAt,
		SessionValidAfter: m.SessionValidAfter,
	}
}

// ToModelCustomer converts a domain customer for DB storage.
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:   d.CustomerID,
		PhoneNumber:  d.PhoneNumber,
		Name:         d.Name,
		MobileNumber: d.MobileNumber,
		CompanyID:    d.CompanyID,
		Notes:        d.Notes,
		AuditFields:  toModelAudit(d.AuditFields),
	}
}

// ToDomainCustomer converts a DB customer row to the domain shape.
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:   m.CustomerID,
		PhoneNumber:  m.PhoneNumber,
		Name:         m.Name,
		MobileNumber: m.MobileNumber,
		CompanyID:    m.CompanyID,
		Notes:        m.Notes,
		AuditFields:  toDomainAudit(m.AuditFields),
	}
}

// ToModelCompany converts a domain company for DB storage.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Category:    d.Category,
		Commission:  d.Commission,
		IsActive:    d.IsActive,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainCompany converts a DB company row to the domain shape.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Category:    m.Category,
		Commission:  m.Commission,
		IsActive:    m.IsActive,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToModelPaymentRequest converts a domain payment request for DB storage.
func ToModelPaymentRequest(d domain.PaymentRequest) models.PaymentRequest {
	return models.PaymentRequest{
		RequestID:   d.RequestID,
		UserID:      d.UserID,
		CustomerID:  d.CustomerID,
		Type:        string(d.Type),
		Amount:      d.Amount,
		Status:      string(d.Status),
		Notes:       d.Notes,
		StaffNotes:  d.StaffNotes,
		ApprovedAt:  d.ApprovedAt,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainPaymentRequest converts a DB ledger row to the domain shape.
func ToDomainPaymentRequest(m models.PaymentRequest) domain.PaymentRequest {
	return domain.PaymentRequest{
		RequestID:   m.RequestID,
		UserID:      m.UserID,
		CustomerID:  m.CustomerID,
		Type:        domain.RequestType(m.Type),
		Amount:      m.Amount,
		Status:      domain.RequestStatus(m.Status),
		Notes:       m.Notes,
		StaffNotes:  m.StaffNotes,
		ApprovedAt:  m.ApprovedAt,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToDomainNotification converts a DB notification row to the domain shape.
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Title:          m.Title,
		Message:        m.Message,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
