package services

import (
	"context"
	"time"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// TokenSvcFacade issues and validates access tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
