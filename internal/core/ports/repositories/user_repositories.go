package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// UserReader defines read operations for staff users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByPhone looks up a user by the unique phone business key,
	// including inactive users; callers decide whether inactive matters.
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)

	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for staff users.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error
	DeleteUser(ctx context.Context, userID string) error
}

// UserBalanceTx defines the in-transaction balance operations. The user row
// must be locked via FindUserForUpdate before any balance math; the delta is
// then applied with AdjustUserBalanceInTx on the same transaction.
type UserBalanceTx interface {
	// FindUserForUpdate fetches a user row with a FOR UPDATE lock.
	FindUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)

	// AdjustUserBalanceInTx applies a signed delta to the user's balance.
	AdjustUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error
}

// UserCredentialTx defines the in-transaction credential change operations.
type UserCredentialTx interface {
	// UpdatePasswordInTx stores the new hash and bumps password_changed_at and
	// session_valid_after.
	UpdatePasswordInTx(ctx context.Context, tx pgx.Tx, userID string, newHash string, now time.Time) error

	// InsertPasswordChangeInTx appends a credential-change audit record.
	InsertPasswordChangeInTx(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserBalanceTx
	UserCredentialTx
}

// UserRepositoryWithTx extends UserRepositoryFacade with transaction capabilities.
type UserRepositoryWithTx interface {
	UserRepositoryFacade
	TransactionManager
}
