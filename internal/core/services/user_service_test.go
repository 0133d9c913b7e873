package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/core/services"
	"github.com/hazemq/billpay_backend/internal/dto"
	"github.com/hazemq/billpay_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	notifier     *MockNotifier
	service      portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.notifier = new(MockNotifier)
	s.service = services.NewUserService(s.mockUserRepo, s.notifier)
}

func (s *UserServiceTestSuite) seedUser(password string, active bool) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Name:         "Staff One",
		Phone:        "+201001234567",
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Balance:      decimal.NewFromInt(500),
		IsActive:     active,
	}
}

func (s *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	user := s.seedUser("correct horse", true)
	s.mockUserRepo.FindUserByPhoneFn = func(ctx context.Context, phone string) (*domain.User, error) {
		return user, nil
	}

	got, err := s.service.Authenticate(ctx, user.Phone, "correct horse")

	s.Require().NoError(err)
	s.Equal(user.UserID, got.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticate_UnknownPhone_GenericUnauthorized() {
	ctx := context.Background()
	s.mockUserRepo.FindUserByPhoneFn = func(ctx context.Context, phone string) (*domain.User, error) {
		return nil, apperrors.ErrNotFound
	}

	_, err := s.service.Authenticate(ctx, "+200000000000", "whatever")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.NotErrorIs(err, apperrors.ErrNotFound, "the response must not reveal whether the account exists")
}

func (s *UserServiceTestSuite) TestAuthenticate_WrongPassword_GenericUnauthorized() {
	ctx := context.Background()
	user := s.seedUser("correct horse", true)
	s.mockUserRepo.FindUserByPhoneFn = func(ctx context.Context, phone string) (*domain.User, error) {
		return user, nil
	}

	_, err := s.service.Authenticate(ctx, user.Phone, "battery staple")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticate_InactiveAccount_GenericUnauthorized() {
	ctx := context.Background()
	user := s.seedUser("correct horse", false)
	s.mockUserRepo.FindUserByPhoneFn = func(ctx context.Context, phone string) (*domain.User, error) {
		return user, nil
	}

	_, err := s.service.Authenticate(ctx, user.Phone, "correct horse")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestChangePassword_WrongCurrent_Unauthorized() {
	ctx := context.Background()
	user := s.seedUser("old pass", true)
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		return user, nil
	}
	updated := false
	s.mockUserRepo.UpdatePasswordInTxFn = func(ctx context.Context, tx pgx.Tx, userID, newHash string, now time.Time) error {
		updated = true
		return nil
	}

	err := s.service.ChangePassword(ctx, user.UserID, "not the old pass", "new pass")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.False(updated)
}

func (s *UserServiceTestSuite) TestChangePassword_UnchangedPassword_NoOp() {
	ctx := context.Background()
	user := s.seedUser("same pass", true)
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		return user, nil
	}
	updated := false
	s.mockUserRepo.UpdatePasswordInTxFn = func(ctx context.Context, tx pgx.Tx, userID, newHash string, now time.Time) error {
		updated = true
		return nil
	}
	audited := false
	s.mockUserRepo.InsertPasswordChangeInTxFn = func(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error {
		audited = true
		return nil
	}

	err := s.service.ChangePassword(ctx, user.UserID, "same pass", "same pass")

	s.Require().NoError(err)
	s.False(updated, "an unchanged credential must not be rewritten")
	s.False(audited, "an unchanged credential must not leave an audit row")
	s.Empty(s.notifier.Calls, "an unchanged credential must not notify")
}

func (s *UserServiceTestSuite) TestChangePassword_Success_AuditedAndStored() {
	ctx := context.Background()
	user := s.seedUser("old pass", true)
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		return user, nil
	}
	var storedHash string
	s.mockUserRepo.UpdatePasswordInTxFn = func(ctx context.Context, tx pgx.Tx, userID, newHash string, now time.Time) error {
		storedHash = newHash
		return nil
	}
	var audit *domain.PasswordChange
	s.mockUserRepo.InsertPasswordChangeInTxFn = func(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error {
		audit = &change
		return nil
	}
	committed := false
	s.mockUserRepo.CommitFn = func(ctx context.Context, tx pgx.Tx) error {
		committed = true
		return nil
	}

	err := s.service.ChangePassword(ctx, user.UserID, "old pass", "new pass")

	s.Require().NoError(err)
	s.True(committed)
	s.True(utils.CheckPasswordHash("new pass", storedHash))
	s.Require().NotNil(audit)
	s.Equal(user.PasswordHash, audit.OldPasswordHash)
	s.Equal(storedHash, audit.NewPasswordHash)
	s.NotEmpty(audit.ChangeID)
	s.Len(s.notifier.Calls, 1, "the owner must be told their password changed")
}

func (s *UserServiceTestSuite) TestCreateUser_DefaultsToUserRole() {
	ctx := context.Background()
	var saved domain.User
	s.mockUserRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}

	created, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Name:     "New Staff",
		Phone:    "+201009876543",
		Password: "secret123",
		Balance:  decimal.NewFromInt(100),
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal(domain.RoleUser, created.Role)
	s.True(created.IsActive)
	s.True(utils.CheckPasswordHash("secret123", saved.PasswordHash))
	s.Equal("admin-1", saved.CreatedBy)
}

func (s *UserServiceTestSuite) TestCreateUser_NegativeBalance_Invalid() {
	ctx := context.Background()

	_, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Name:     "New Staff",
		Phone:    "+201009876543",
		Password: "secret123",
		Balance:  decimal.NewFromInt(-10),
	}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *UserServiceTestSuite) TestUpdateUser_BalanceReplacementGoesThroughLockedPath() {
	ctx := context.Background()
	current := s.seedUser("pass", true)
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		cp := *current
		return &cp, nil
	}
	s.mockUserRepo.UpdateUserFn = func(ctx context.Context, user domain.User) error {
		return nil
	}
	s.mockUserRepo.FindUserForUpdateFn = func(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
		cp := *current
		return &cp, nil
	}
	var applied decimal.Decimal
	s.mockUserRepo.AdjustUserBalanceInTxFn = func(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error {
		applied = delta
		return nil
	}

	newBalance := decimal.NewFromInt(800)
	_, err := s.service.UpdateUser(ctx, current.UserID, dto.UpdateUserRequest{Balance: &newBalance}, "admin-1")

	s.Require().NoError(err)
	// Current balance is 500; replacement with 800 must apply a +300 delta.
	s.True(applied.Equal(decimal.NewFromInt(300)))
}

func (s *UserServiceTestSuite) TestDeactivateUser_Self_Refused() {
	ctx := context.Background()

	err := s.service.DeactivateUser(ctx, "admin-1", "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *UserServiceTestSuite) TestDeleteUser_Self_Refused() {
	ctx := context.Background()

	err := s.service.DeleteUser(ctx, "admin-1", "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
