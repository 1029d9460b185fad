package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const MaxMessageLen = 4096

const typingInterval = 4 * time.Second

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) error {
	parts := SplitMessage(FixMarkdown(text), MaxMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if markup != nil && i == len(parts)-1 {
			params.ReplyMarkup = markup
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			if _, err = b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}

	return nil
}

// SendText sends a short plain message and logs failures.
func SendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		slog.Error("send message", "chat_id", chatID, "error", err)
	}
}

// Indicator shows a chat as busy while at least one exchange is in flight:
// a typing action repeated every few seconds plus a status message.
type Indicator struct {
	bot    *bot.Bot
	chatID int64
	status string

	mu       sync.Mutex
	active   int
	cancel   context.CancelFunc
	statusID int
}

func NewIndicator(b *bot.Bot, chatID int64, status string) *Indicator {
	return &Indicator{bot: b, chatID: chatID, status: status}
}

// Start marks one more exchange in flight.
func (in *Indicator) Start(ctx context.Context) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.active++
	if in.active > 1 {
		return
	}

	typingCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	in.cancel = cancel
	go in.typing(typingCtx)

	if in.status != "" {
		msg, err := in.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: in.chatID, Text: in.status})
		if err == nil && msg != nil {
			in.statusID = msg.ID
		}
	}
}

// Stop marks one exchange as settled. The indicator is removed when none
// remain.
func (in *Indicator) Stop(ctx context.Context) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.active == 0 {
		return
	}
	in.active--
	if in.active > 0 {
		return
	}

	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
	if in.statusID != 0 {
		if _, err := in.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: in.chatID, MessageID: in.statusID}); err != nil {
			slog.Debug("delete status message", "chat_id", in.chatID, "error", err)
		}
		in.statusID = 0
	}
}

func (in *Indicator) typing(ctx context.Context) {
	ticker := time.NewTicker(typingInterval)
	defer ticker.Stop()
	for {
		in.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: in.chatID,
			Action: models.ChatActionTyping,
		})
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
