package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			chatID, _ := ChatID(update)

			next(ctx, b, update)

			slog.Debug("update processed",
				"type", UpdateType(update),
				"chat_id", chatID,
				"duration", time.Since(start),
			)
		}
	}
}

// UpdateType names the kind of update for logs.
func UpdateType(update *models.Update) string {
	switch {
	case update.Message != nil && update.Message.Voice != nil:
		return "voice"
	case update.Message != nil && update.Message.Audio != nil:
		return "audio"
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback_query"
	default:
		return "unknown"
	}
}

// ChatID returns the chat an update belongs to.
func ChatID(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID, true
	default:
		return 0, false
	}
}
