package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/shopassist/internal/telegram"
)

func (h *Handler) handleProducts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	products := h.catalog.Products()
	if len(products) == 0 {
		tg.SendText(ctx, b, chatID, "No recommendations yet.")
		return
	}

	var sb strings.Builder
	var rows [][]models.InlineKeyboardButton
	sb.WriteString("🛒 *Recommended products*\n")
	for _, p := range products {
		sb.WriteString("\n")
		sb.WriteString(tg.ProductCard(p))
		sb.WriteString("\n")
		if p.Image != "" {
			rows = append(rows, tg.ButtonRow(tg.URLButton("🖼 "+p.Name, p.Image)))
		}
	}
	fmt.Fprintf(&sb, "\nTotal: *%s*", tg.FormatPrice(h.catalog.Total()))

	var markup models.ReplyMarkup
	if len(rows) > 0 {
		markup = tg.InlineKeyboard(rows...)
	}
	if err := tg.SendLongMessage(ctx, b, chatID, sb.String(), markup); err != nil {
		slog.Error("send products", "chat_id", chatID, "error", err)
	}
}
