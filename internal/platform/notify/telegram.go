// Package notify delivers outbound notifications to staff chat channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
)

const sendTimeout = 10 * time.Second

// TelegramNotifier delivers messages through the Telegram Bot API. Delivery is
// fire-and-forget: Notify spawns a goroutine and never reports failure to the
// caller, because a committed ledger transition must not depend on Telegram.
type TelegramNotifier struct {
	client   *http.Client
	baseURL  string
	botToken string
	chats    portsrepo.TelegramChatRepositoryFacade
	logger   *slog.Logger
}

var _ portssvc.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier that sends via the Bot API.
func NewTelegramNotifier(baseURL string, botToken string, chats portsrepo.TelegramChatRepositoryFacade, logger *slog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		client:   &http.Client{Timeout: sendTimeout},
		baseURL:  baseURL,
		botToken: botToken,
		chats:    chats,
		logger:   logger,
	}
}

type sendMessagePayload struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Notify sends the message to the chat registered for phone, if any.
func (n *TelegramNotifier) Notify(ctx context.Context, phone string, title string, message string) {
	// Detach from the request context: the HTTP response should not wait on
	// Telegram, and a cancelled request must not cancel delivery.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		chatID, err := n.chats.FindChatIDByPhone(sendCtx, phone)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				n.logger.Warn("Telegram chat lookup failed", slog.String("error", err.Error()))
			}
			return
		}

		body, err := json.Marshal(sendMessagePayload{
			ChatID: chatID,
			Text:   fmt.Sprintf("%s\n\n%s", title, message),
		})
		if err != nil {
			n.logger.Error("Failed to marshal telegram payload", slog.String("error", err.Error()))
			return
		}

		url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
		req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			n.logger.Error("Failed to build telegram request", slog.String("error", err.Error()))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			n.logger.Warn("Telegram delivery failed", slog.String("error", err.Error()))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			n.logger.Warn("Telegram delivery rejected", slog.Int("status", resp.StatusCode), slog.Int64("chat_id", chatID))
		}
	}()
}

// NoopNotifier is used when no bot token is configured.
type NoopNotifier struct{}

var _ portssvc.Notifier = (*NoopNotifier)(nil)

// Notify does nothing.
func (NoopNotifier) Notify(ctx context.Context, phone string, title string, message string) {}
