package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the persistence shape of a ledger row.
type PaymentRequest struct {
	RequestID  string          `db:"request_id"`
	UserID     string          `db:"user_id"`
	CustomerID string          `db:"customer_id"` // nullable for balance adjustments
	Type       string          `db:"request_type"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	Notes      string          `db:"notes"`
	StaffNotes string          `db:"staff_notes"`
	ApprovedAt *time.Time      `db:"approved_at"`
	AuditFields
}
