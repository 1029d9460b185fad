package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/set-night/shopassist/internal/middleware"
	tg "github.com/set-night/shopassist/internal/telegram"
)

const (
	cbSessionNew    = "sess_new"
	cbSessionSelect = "sess_sel_"
	cbSessionRename = "sess_ren_"
	cbSessionPage   = "sess_page"
)

const sessionLabelLen = 32

func (h *Handler) handleSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	text, keyboard := sessionsPage(ws.Sessions.List(), ws.Sessions.CurrentID(), 0)
	h.sendOrEdit(ctx, b, update.Message.Chat.ID, 0, text, keyboard)
}

func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	ws.CancelRename()
	id := ws.Sessions.Create()
	slog.Info("session created", "chat_id", update.Message.Chat.ID, "session_id", id)
	h.sendGreeting(ctx, b, update.Message.Chat.ID)
}

// handleRename renames the current session inline ("/rename New title") or
// waits for the next text message when no title is given.
func (h *Handler) handleRename(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sessionID := ws.Sessions.CurrentID()

	if title := commandArgs(update.Message.Text); title != "" {
		h.finishRename(ctx, b, chatID, ws, sessionID, title)
		return
	}

	ws.BeginRename(sessionID)
	tg.SendText(ctx, b, chatID, "Send the new title for this chat, or /cancel.")
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	if ws.CancelRename() {
		tg.SendText(ctx, b, update.Message.Chat.ID, "Rename cancelled.")
		return
	}
	tg.SendText(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
}

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	sess, ok := ws.Sessions.Current()
	if !ok {
		return
	}
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, tg.Transcript(sess), nil); err != nil {
		slog.Error("send history", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

func (h *Handler) handleSessionCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	ws := middleware.GetWorkspace(ctx)
	msg := cq.Message.Message
	if ws == nil || msg == nil {
		return
	}
	chatID := msg.Chat.ID
	page := 0

	switch data := cq.Data; {
	case data == cbSessionNew:
		ws.CancelRename()
		ws.Sessions.Create()
	case strings.HasPrefix(data, cbSessionSelect):
		id := strings.TrimPrefix(data, cbSessionSelect)
		if !ws.Sessions.Select(id) {
			slog.Warn("select unknown session", "chat_id", chatID, "session_id", id)
		}
		page = pageOf(ws.Sessions.List(), id)
	case strings.HasPrefix(data, cbSessionRename):
		id := strings.TrimPrefix(data, cbSessionRename)
		if ws.BeginRename(id) {
			tg.SendText(ctx, b, chatID, "Send the new title for this chat, or /cancel.")
		}
		return
	case strings.HasPrefix(data, cbSessionPage+"_"):
		page, _ = strconv.Atoi(strings.TrimPrefix(data, cbSessionPage+"_"))
	default:
		return
	}

	text, keyboard := sessionsPage(ws.Sessions.List(), ws.Sessions.CurrentID(), page)
	h.sendOrEdit(ctx, b, chatID, msg.ID, text, keyboard)
}

// sessionsPage renders one page of the session sidebar, newest last, with
// the current session ticked.
func sessionsPage(sessions []domain.ChatSession, currentID string, page int) (string, *models.InlineKeyboardMarkup) {
	perPage := config.SessionsPerPage
	totalPages := max((len(sessions)+perPage-1)/perPage, 1)
	page = min(max(page, 0), totalPages-1)

	start := page * perPage
	end := min(start+perPage, len(sessions))

	var sb strings.Builder
	fmt.Fprintf(&sb, "📂 *Chats* (%d)\n", len(sessions))

	var rows [][]models.InlineKeyboardButton
	for _, s := range sessions[start:end] {
		label := tg.Truncate(s.Title, sessionLabelLen)
		if s.ID == currentID {
			label = "✅ " + label
			if last, ok := s.LastMessage(); ok {
				fmt.Fprintf(&sb, "\n_%s_\n", tg.EscapeMarkdown(tg.Truncate(last.Content, 80)))
			}
		}
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(label, cbSessionSelect+s.ID),
			tg.InlineButton("✏️", cbSessionRename+s.ID),
		))
	}

	rows = append(rows, tg.ButtonRow(tg.InlineButton("➕ New chat", cbSessionNew)))
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, cbSessionPage))
	}

	return sb.String(), tg.InlineKeyboard(rows...)
}

func pageOf(sessions []domain.ChatSession, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i / config.SessionsPerPage
		}
	}
	return 0
}

func (h *Handler) sendOrEdit(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) {
	if messageID != 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			slog.Debug("edit sessions message", "chat_id", chatID, "error", err)
		}
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		slog.Error("send sessions message", "chat_id", chatID, "error", err)
	}
}

// commandArgs returns the text after the command word.
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}
