package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/set-night/shopassist/internal/middleware"
	"github.com/set-night/shopassist/internal/service"
	tg "github.com/set-night/shopassist/internal/telegram"
)

// HandleText processes plain text: a pending rename takes it as the new
// title, otherwise it is sent to the current session.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if id, ok := ws.TakeRename(); ok {
		h.finishRename(ctx, b, chatID, ws, id, text)
		return
	}

	ws.SetInput(text)
	sessionID := ws.Sessions.CurrentID()
	reply, ok := h.dispatcher.Send(ctx, ws.Sessions, sessionID, text, h.feedback(ctx, b, chatID, ws, sessionID))
	if !ok {
		ws.ClearInput()
		return
	}
	h.sendReply(ctx, b, chatID, reply)
}

func (h *Handler) sendReply(ctx context.Context, b *bot.Bot, chatID int64, reply domain.Message) {
	if err := tg.SendLongMessage(ctx, b, chatID, tg.RenderAnswer(reply.Content), nil); err != nil {
		slog.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) finishRename(ctx context.Context, b *bot.Bot, chatID int64, ws *service.Workspace, sessionID, title string) {
	title = strings.TrimSpace(title)
	if title == "" || !ws.Sessions.Rename(sessionID, title) {
		tg.SendText(ctx, b, chatID, "Title unchanged.")
		return
	}
	tg.SendText(ctx, b, chatID, "✏️ Renamed to: "+title)
}
