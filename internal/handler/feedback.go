package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/set-night/shopassist/internal/service"
	tg "github.com/set-night/shopassist/internal/telegram"
)

const statusThinking = "🤔 Thinking..."

// chatFeedback turns dispatcher signals into chat UI: the shared busy
// indicator, the workspace input buffer and a short failure notice.
type chatFeedback struct {
	ctx       context.Context
	h         *Handler
	b         *bot.Bot
	chatID    int64
	sessionID string
	ws        *service.Workspace
	voice     bool
}

func (h *Handler) feedback(ctx context.Context, b *bot.Bot, chatID int64, ws *service.Workspace, sessionID string) *chatFeedback {
	return &chatFeedback{ctx: ctx, h: h, b: b, chatID: chatID, sessionID: sessionID, ws: ws}
}

func (f *chatFeedback) Busy(active bool) {
	f.ws.MarkBusy(active)
	in := f.h.indicator(f.b, f.chatID)
	if active {
		in.Start(f.ctx)
	} else {
		in.Stop(f.ctx)
	}
}

func (f *chatFeedback) ClearInput() {
	f.ws.ClearInput()
}

func (f *chatFeedback) Failed(err error) {
	tg.SendText(f.ctx, f.b, f.chatID, "❌ "+failureNotice(err, f.voice))
	if f.voice {
		f.h.tgLogger.LogVoiceFailure(f.chatID, f.sessionID, err)
		return
	}
	f.h.tgLogger.LogError(err, fmt.Sprintf("chat %d session %s", f.chatID, f.sessionID))
}

func failureNotice(err error, voice bool) string {
	switch {
	case errors.Is(err, domain.ErrBackendNotConfigured):
		return "The assistant backend is not configured."
	case errors.Is(err, context.DeadlineExceeded):
		return "The assistant took too long to answer."
	case errors.Is(err, domain.ErrEmptyTranscription):
		return "Couldn't make out any words in that recording."
	case voice:
		return "Failed to process your voice message."
	default:
		return "Failed to get a response."
	}
}
