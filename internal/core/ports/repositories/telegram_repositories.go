package repositories

import "context"

// TelegramChatRepositoryFacade maps staff phone numbers to Telegram chat IDs.
// Rows are registered when a user shares their contact with the bot; delivery
// silently skips phones that never registered.
type TelegramChatRepositoryFacade interface {
	FindChatIDByPhone(ctx context.Context, phone string) (int64, error)
	SaveTelegramChat(ctx context.Context, phone string, chatID int64) error
}
