package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	"github.com/hazemq/billpay_backend/internal/middleware"
)

// telegramHandler receives Bot API webhook updates so staff can register
// their chat for notifications by sharing their contact with the bot.
type telegramHandler struct {
	chatRepo portsrepo.TelegramChatRepositoryFacade
}

func newTelegramHandler(chatRepo portsrepo.TelegramChatRepositoryFacade) *telegramHandler {
	return &telegramHandler{chatRepo: chatRepo}
}

// registerTelegramRoutes registers the public webhook route. The Bot API is
// the only expected caller; the webhook URL itself is the shared secret.
func registerTelegramRoutes(r *gin.Engine, chatRepo portsrepo.TelegramChatRepositoryFacade) {
	h := newTelegramHandler(chatRepo)
	r.POST("/telegram/webhook", h.webhook)
}

// telegramUpdate is the subset of the Bot API Update object we care about.
type telegramUpdate struct {
	Message struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Contact struct {
			PhoneNumber string `json:"phone_number"`
		} `json:"contact"`
	} `json:"message"`
}

// webhook handles an incoming Bot API update. Only contact shares are acted
// on; everything else is acknowledged and dropped. Telegram retries non-200
// responses, so the handler always answers 200 once the payload parses.
func (h *telegramHandler) webhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload"})
		return
	}

	phone := update.Message.Contact.PhoneNumber
	chatID := update.Message.Chat.ID
	if phone == "" || chatID == 0 {
		c.Status(http.StatusOK)
		return
	}

	// Telegram sends contact numbers without the plus prefix.
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if err := h.chatRepo.SaveTelegramChat(c.Request.Context(), phone, chatID); err != nil {
		logger.Error("Failed to save telegram chat registration", slog.String("error", err.Error()))
		c.Status(http.StatusOK)
		return
	}

	logger.Info("Telegram chat registered", slog.Int64("chat_id", chatID))
	c.Status(http.StatusOK)
}
