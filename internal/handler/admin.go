package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
	tg "github.com/set-night/shopassist/internal/telegram"
)

func (h *Handler) isAdmin(update *models.Update) bool {
	return update.Message != nil && update.Message.From != nil && h.cfg.IsAdmin(update.Message.From.ID)
}

// handleFiles lists stored objects: /files [category].
func (h *Handler) handleFiles(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update) {
		return
	}
	chatID := update.Message.Chat.ID

	category := commandArgs(update.Message.Text)
	if category == "" {
		category = config.VoiceCategory
	}

	objects, err := h.blobs.List(ctx, category)
	if err != nil {
		slog.Error("list blobs", "category", category, "error", err)
		tg.SendText(ctx, b, chatID, "❌ Failed to list files.")
		return
	}
	if len(objects) == 0 {
		tg.SendText(ctx, b, chatID, "No files in "+category+".")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 %s (%d)\n", category, len(objects))
	for _, o := range objects {
		fmt.Fprintf(&sb, "\n%s  %s  %d B  %s", o.Name, o.ContentType, o.Size, o.CreatedAt.Format("2006-01-02 15:04"))
	}

	for _, part := range tg.SplitMessage(sb.String(), tg.MaxMessageLen) {
		tg.SendText(ctx, b, chatID, part)
	}
}

// handleRemoveFile deletes one stored object: /rmfile <category> <name>.
func (h *Handler) handleRemoveFile(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		tg.SendText(ctx, b, chatID, "Usage: /rmfile <category> <name>")
		return
	}

	err := h.blobs.Delete(ctx, parts[1], parts[2])
	switch {
	case errors.Is(err, domain.ErrBlobNotFound):
		tg.SendText(ctx, b, chatID, "❌ File not found.")
	case err != nil:
		slog.Error("delete blob", "category", parts[1], "name", parts[2], "error", err)
		h.tgLogger.LogError(err, "rmfile")
		tg.SendText(ctx, b, chatID, "❌ Failed to delete file.")
	default:
		slog.Info("blob deleted by admin", "admin_id", update.Message.From.ID, "category", parts[1], "name", parts[2])
		tg.SendText(ctx, b, chatID, "🗑 Deleted "+parts[2]+".")
	}
}
