package services

import (
	"context"

	"github.com/hazemq/billpay_backend/internal/dto"
)

// NotificationSvcFacade reads and acknowledges in-app notifications. Rows are
// written by the payment and user services as part of their transitions, never
// through this interface.
type NotificationSvcFacade interface {
	ListForUser(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
