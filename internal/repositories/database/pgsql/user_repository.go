package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	"github.com/hazemq/billpay_backend/internal/models"
	"github.com/hazemq/billpay_backend/internal/utils/mapping"
)

const userColumns = `user_id, name, phone, password_hash, role, balance, is_active, created_at, created_by, last_updated_at, last_updated_by, password_changed_at, session_valid_after`

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for staff user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryWithTx {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryWithTx = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Phone,
		&m.PasswordHash,
		&m.Role,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.PasswordChangedAt,
		&m.SessionValidAfter,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveUser inserts a new staff user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Phone,
		m.PasswordHash,
		m.Role,
		m.Balance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.PasswordChangedAt,
		m.SessionValidAfter,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: user with phone %s already exists", apperrors.ErrDuplicate, m.Phone)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// FindUserByPhone retrieves a user by the unique phone business key.
// Inactive users are returned too; callers decide whether that matters.
func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}

	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// ListUsers retrieves users ordered by creation time, newest first.
func (r *PgxUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateUser updates the mutable fields of a user. The balance is NOT touched
// here; balance changes go through AdjustUserBalanceInTx under a row lock.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		UPDATE users
		SET name = $2, phone = $3, role = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Phone,
		m.Role,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: user with phone %s already exists", apperrors.ErrDuplicate, m.Phone)
		}
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateUser marks a user inactive without removing their ledger history.
func (r *PgxUserRepository) DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE users
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user row entirely.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindUserForUpdate fetches a user row with a FOR UPDATE lock within a transaction.
func (r *PgxUserRepository) FindUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE;`

	m, err := scanUser(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user %s: %w", userID, mapPgError(err))
	}

	user := mapping.ToDomainUser(*m)
	return &user, nil
}

// AdjustUserBalanceInTx applies a signed delta to the user's balance within a
// transaction. Callers must hold the row lock from FindUserForUpdate.
func (r *PgxUserRepository) AdjustUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE users
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, userID, delta, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for user %s: %w", userID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePasswordInTx stores the new credential hash and bumps both
// password_changed_at and session_valid_after, so tokens issued before now
// stop working.
func (r *PgxUserRepository) UpdatePasswordInTx(ctx context.Context, tx pgx.Tx, userID string, newHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, session_valid_after = $3, last_updated_at = $3, last_updated_by = $1
		WHERE user_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, userID, newHash, now)
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", userID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// InsertPasswordChangeInTx appends a credential-change audit record.
func (r *PgxUserRepository) InsertPasswordChangeInTx(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error {
	query := `
		INSERT INTO password_changes (change_id, user_id, old_password_hash, new_password_hash, changed_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query,
		change.ChangeID,
		change.UserID,
		change.OldPasswordHash,
		change.NewPasswordHash,
		change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert password change audit for user %s: %w", change.UserID, mapPgError(err))
	}
	return nil
}
