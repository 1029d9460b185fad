package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/config"
	tg "github.com/set-night/shopassist/internal/telegram"
)

const helpText = "🛍 *Shopping assistant*\n\n" +
	"Ask about products in plain words or send a voice message.\n\n" +
	"📋 *Commands:*\n" +
	"/new — Start a new chat\n" +
	"/sessions — Switch between chats\n" +
	"/rename — Rename the current chat\n" +
	"/history — Show the current chat\n" +
	"/products — Recommended products\n" +
	"/cancel — Cancel renaming"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendGreeting(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, helpText, tg.MainMenu()); err != nil {
		slog.Error("send help", "error", err)
	}
}

// sendGreeting shows the assistant's opening line, the same one every new
// session starts with.
func (h *Handler) sendGreeting(ctx context.Context, b *bot.Bot, chatID int64) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "👋 " + config.Greeting,
		ReplyMarkup: tg.MainMenu(),
	})
	if err != nil {
		slog.Error("send greeting", "chat_id", chatID, "error", err)
	}
}
