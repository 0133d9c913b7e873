package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// NotificationRepositoryFacade defines persistence operations for in-app
// notifications. Inserts happen inside the state-transition transaction so a
// committed transition always has its notification row.
type NotificationRepositoryFacade interface {
	// InsertNotificationInTx writes a notification for one user.
	InsertNotificationInTx(ctx context.Context, tx pgx.Tx, n domain.Notification) error

	// InsertNotificationForAdminsInTx writes one notification per active admin.
	InsertNotificationForAdminsInTx(ctx context.Context, tx pgx.Tx, title string, message string, now time.Time) error

	ListNotifications(ctx context.Context, userID string, limit int, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}
