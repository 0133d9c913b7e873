package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
	"github.com/hazemq/billpay_backend/internal/middleware"
	"github.com/hazemq/billpay_backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryWithTx
	notifier portssvc.Notifier
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryWithTx, notifier portssvc.Notifier) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, notifier: notifier}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Authenticate returns the active user matching phone+password. Unknown
// phone, wrong password and inactive account all collapse into the same
// generic ErrUnauthorized so login failures leak nothing about which
// accounts exist.
func (s *userService) Authenticate(ctx context.Context, phone string, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to look up user during login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// ChangePassword verifies the current credential and stores a new one. When
// the new password hashes to the same credential nothing happens: no audit
// row, no session invalidation.
func (s *userService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	// Same password submitted again: the stored hash stays valid, so skip the
	// audit row and keep existing sessions alive.
	if utils.CheckPasswordHash(newPassword, user.PasswordHash) {
		logger.Info("Password change requested with unchanged credential", slog.String("user_id", userID))
		return nil
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	now := time.Now()

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.userRepo.Rollback(ctx, tx)
	}()

	if err := s.userRepo.UpdatePasswordInTx(ctx, tx, userID, newHash, now); err != nil {
		return err
	}

	change := domain.PasswordChange{
		ChangeID:        uuid.NewString(),
		UserID:          userID,
		OldPasswordHash: user.PasswordHash,
		NewPasswordHash: newHash,
		ChangedAt:       now,
	}
	if err := s.userRepo.InsertPasswordChangeInTx(ctx, tx, change); err != nil {
		return err
	}

	if err := s.userRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Password changed", slog.String("user_id", userID))
	s.notifier.Notify(ctx, user.Phone, "Password changed", "Your account password was changed. If this was not you, contact an administrator.")
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves users with pagination.
func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error) {
	return s.userRepo.ListUsers(ctx, params.Limit, params.Offset)
}

// CreateUser registers a new staff user.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: starting balance cannot be negative", apperrors.ErrInvalidAmount)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Balance:      req.Balance,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// UpdateUser updates the mutable fields of a user.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = domain.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	// Direct balance replacement goes through the locked adjustment path so it
	// serializes with concurrent reservations.
	if req.Balance != nil {
		if req.Balance.IsNegative() {
			return nil, fmt.Errorf("%w: balance cannot be negative", apperrors.ErrInvalidAmount)
		}
		if err := s.replaceBalance(ctx, userID, req.Balance, updaterUserID); err != nil {
			return nil, err
		}
	}

	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) replaceBalance(ctx context.Context, userID string, newBalance *decimal.Decimal, updatedBy string) error {
	now := time.Now()

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.userRepo.Rollback(ctx, tx)
	}()

	locked, err := s.userRepo.FindUserForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}

	delta := newBalance.Sub(locked.Balance)
	if err := s.userRepo.AdjustUserBalanceInTx(ctx, tx, userID, delta, updatedBy, now); err != nil {
		return err
	}

	return s.userRepo.Commit(ctx, tx)
}

// DeactivateUser marks a user inactive. Self-deactivation is refused so an
// admin cannot lock themselves out.
func (s *userService) DeactivateUser(ctx context.Context, userID string, actorUserID string) error {
	if userID == actorUserID {
		return fmt.Errorf("%w: cannot deactivate your own account", apperrors.ErrValidation)
	}
	return s.userRepo.DeactivateUser(ctx, userID, actorUserID, time.Now())
}

// DeleteUser removes a user entirely. Self-deletion is refused.
func (s *userService) DeleteUser(ctx context.Context, userID string, actorUserID string) error {
	if userID == actorUserID {
		return fmt.Errorf("%w: cannot delete your own account", apperrors.ErrValidation)
	}
	return s.userRepo.DeleteUser(ctx, userID)
}
