package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// CreatePaymentRequest carries a staff payment submission. The amount is
// optional; when present it is reserved from the submitter's balance
// immediately.
type CreatePaymentRequest struct {
	PhoneNumber  string           `json:"phoneNumber" binding:"required,phone"`
	CustomerName string           `json:"customerName" binding:"required"`
	MobileNumber string           `json:"mobileNumber"`
	CompanyID    string           `json:"companyID" binding:"required"`
	Amount       *decimal.Decimal `json:"amount"`
	Notes        string           `json:"notes"`
}

// RejectPaymentRequest carries the rejection reason.
type RejectPaymentRequest struct {
	Reason string `json:"reason"`
}

// ChangeStatusRequest carries an administrative status override.
type ChangeStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=pending approved rejected"`
	StaffNotes string `json:"staffNotes"`
}

// SetAmountRequest carries the amount a staff member fills in later.
type SetAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ListPaymentRequestsParams defines query parameters for listing requests.
type ListPaymentRequestsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Search string `form:"search"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// PaymentRequestResponse is the outward shape of a ledger row.
type PaymentRequestResponse struct {
	RequestID  string          `json:"requestID"`
	UserID     string          `json:"userID"`
	CustomerID string          `json:"customerID,omitempty"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	StaffNotes string          `json:"staffNotes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
}

// ToPaymentRequestResponse converts a domain.PaymentRequest to its response DTO.
func ToPaymentRequestResponse(r *domain.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		RequestID:  r.RequestID,
		UserID:     r.UserID,
		CustomerID: r.CustomerID,
		Type:       string(r.Type),
		Amount:     r.Amount,
		Status:     string(r.Status),
		Notes:      r.Notes,
		StaffNotes: r.StaffNotes,
		CreatedAt:  r.CreatedAt,
		ApprovedAt: r.ApprovedAt,
	}
}

// ToPaymentRequestResponses converts a slice of ledger rows.
func ToPaymentRequestResponses(rs []domain.PaymentRequest) []PaymentRequestResponse {
	out := make([]PaymentRequestResponse, len(rs))
	for i := range rs {
		out[i] = ToPaymentRequestResponse(&rs[i])
	}
	return out
}
