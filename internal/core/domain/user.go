package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole controls what a staff user is allowed to do.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a staff or admin account holding a monetary balance.
// The balance is only ever mutated by the payment service (reservation on
// request creation, credit on rejection/reversal) or by the explicit
// administrative add/deduct operations, which are logged as ledger rows.
type User struct {
	UserID       string          `json:"userID"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"` // unique business key
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	IsActive     bool            `json:"isActive"`
	AuditFields
	// PasswordChangedAt tracks the last credential change for auditing.
	PasswordChangedAt *time.Time `json:"passwordChangedAt,omitempty"`
	// SessionValidAfter invalidates tokens issued before it. Bumped only when
	// the credential actually changes.
	SessionValidAfter *time.Time `json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
