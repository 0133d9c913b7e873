package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the persistence shape of a staff account.
type User struct {
	UserID       string          `db:"user_id"`
	Name         string          `db:"name"`
	Phone        string          `db:"phone"`
	PasswordHash string          `db:"password_hash"`
	Role         string          `db:"role"`
	Balance      decimal.Decimal `db:"balance"`
	IsActive     bool            `db:"is_active"`
	AuditFields
	PasswordChangedAt *time.Time `db:"password_changed_at"`
	SessionValidAfter *time.Time `db:"session_valid_after"`
}
