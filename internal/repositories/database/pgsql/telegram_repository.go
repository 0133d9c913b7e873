package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
)

type PgxTelegramChatRepository struct {
	BaseRepository
}

// newPgxTelegramChatRepository creates a new repository for Telegram chat mappings.
func newPgxTelegramChatRepository(pool *pgxpool.Pool) portsrepo.TelegramChatRepositoryFacade {
	return &PgxTelegramChatRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TelegramChatRepositoryFacade = (*PgxTelegramChatRepository)(nil)

// FindChatIDByPhone returns the registered chat ID for a phone number.
func (r *PgxTelegramChatRepository) FindChatIDByPhone(ctx context.Context, phone string) (int64, error) {
	var chatID int64
	err := r.Pool.QueryRow(ctx, `SELECT chat_id FROM telegram_chats WHERE phone = $1;`, phone).Scan(&chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to find telegram chat for phone: %w", err)
	}
	return chatID, nil
}

// SaveTelegramChat registers or refreshes the chat ID for a phone number.
func (r *PgxTelegramChatRepository) SaveTelegramChat(ctx context.Context, phone string, chatID int64) error {
	query := `
		INSERT INTO telegram_chats (phone, chat_id)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET chat_id = EXCLUDED.chat_id;
	`
	if _, err := r.Pool.Exec(ctx, query, phone, chatID); err != nil {
		return fmt.Errorf("failed to save telegram chat for phone: %w", err)
	}
	return nil
}
