package services

import (
	"context"

	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
)

type notificationService struct {
	notifRepo portsrepo.NotificationRepositoryFacade
}

// NewNotificationService creates a new notification read service.
func NewNotificationService(notifRepo portsrepo.NotificationRepositoryFacade) portssvc.NotificationSvcFacade {
	return &notificationService{notifRepo: notifRepo}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// ListForUser returns the user's notifications plus their unread count.
func (s *notificationService) ListForUser(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error) {
	notifications, err := s.notifRepo.ListNotifications(ctx, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		out[i] = dto.ToNotificationResponse(&notifications[i])
	}
	return &dto.ListNotificationsResponse{Notifications: out, UnreadCount: unread}, nil
}

// MarkRead acknowledges one notification belonging to the user.
func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) error {
	return s.notifRepo.MarkNotificationRead(ctx, userID, notificationID)
}

// MarkAllRead acknowledges every unread notification of the user.
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifRepo.MarkAllNotificationsRead(ctx, userID)
}
