package services

import (
	"context"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	"github.com/hazemq/billpay_backend/internal/dto"
)

// UserReaderSvc defines read operations on staff users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)
}

// UserAuthSvc defines the authentication operations.
type UserAuthSvc interface {
	// Authenticate returns the active user matching phone+password, or
	// apperrors.ErrUnauthorized. The failure is deliberately generic: unknown
	// phone, wrong password and inactive account are indistinguishable.
	Authenticate(ctx context.Context, phone string, password string) (*domain.User, error)

	// ChangePassword verifies the current credential and stores a new one. If
	// the new password matches the stored hash nothing happens: no audit row,
	// no session invalidation. Otherwise the change is audited and every
	// session issued before the change becomes invalid.
	ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error
}

// UserWriterSvc defines administrative user management operations.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID string, actorUserID string) error
	DeleteUser(ctx context.Context, userID string, actorUserID string) error
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserAuthSvc
	UserWriterSvc
}
