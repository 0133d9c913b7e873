package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the three-state lifecycle of a payment request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RequestType distinguishes staff payment requests from administrative
// balance adjustments, which are recorded in the same ledger.
type RequestType string

const (
	TypePayment       RequestType = "payment"
	TypeBalanceAdd    RequestType = "balance_add"
	TypeBalanceDeduct RequestType = "balance_deduct"
)

// PaymentRequest is money reserved against a user's balance for paying a
// customer's bill. The amount is debited when the request is *created*, not
// when it is approved: pending means "funds already reserved". Rejection
// credits the amount back; approval moves no money.
type PaymentRequest struct {
	RequestID  string          `json:"requestID"`
	UserID     string          `json:"userID"`
	CustomerID string          `json:"customerID,omitempty"` // empty for balance adjustments
	Type       RequestType     `json:"type"`
	Amount     decimal.Decimal `json:"amount"` // zero means "not set yet"; filled in later by staff
	Status     RequestStatus   `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	StaffNotes string          `json:"staffNotes,omitempty"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
	AuditFields
}
