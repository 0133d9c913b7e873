package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	"github.com/hazemq/billpay_backend/internal/models"
	"github.com/hazemq/billpay_backend/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for in-app notifications.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// InsertNotificationInTx writes a notification for one user within the
// state-transition transaction, so a committed transition always has its
// notification row.
func (r *PgxNotificationRepository) InsertNotificationInTx(ctx context.Context, tx pgx.Tx, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query, n.NotificationID, n.UserID, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification for user %s: %w", n.UserID, mapPgError(err))
	}
	return nil
}

// InsertNotificationForAdminsInTx writes one notification per active admin.
func (r *PgxNotificationRepository) InsertNotificationForAdminsInTx(ctx context.Context, tx pgx.Tx, title string, message string, now time.Time) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, title, message, is_read, created_at)
		SELECT gen_random_uuid(), user_id, $1, $2, FALSE, $3
		FROM users
		WHERE role = 'admin' AND is_active = TRUE;
	`
	_, err := tx.Exec(ctx, query, title, message, now)
	if err != nil {
		return fmt.Errorf("failed to insert admin notifications: %w", mapPgError(err))
	}
	return nil
}

// ListNotifications retrieves a user's notifications, newest first.
func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, userID string, limit int, offset int) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, user_id, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.NotificationID, &m.UserID, &m.Title, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, mapping.ToDomainNotification(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *PgxNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE;`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkNotificationRead marks one of the user's notifications as read. The
// user_id predicate stops users from acknowledging each other's rows.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the user as read.
func (r *PgxNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := r.Pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE;`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}
