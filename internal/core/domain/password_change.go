package domain

import "time"

// PasswordChange is an append-only audit record of a credential change.
type PasswordChange struct {
	ChangeID        string    `json:"changeID"`
	UserID          string    `json:"userID"`
	OldPasswordHash string    `json:"-"`
	NewPasswordHash string    `json:"-"`
	ChangedAt       time.Time `json:"changedAt"`
}
