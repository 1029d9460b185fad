package handler

import (
	"sync"

	"github.com/go-telegram/bot"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/service"
	"github.com/set-night/shopassist/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot        *bot.Bot
	cfg        *config.Config
	workspaces *service.Workspaces
	dispatcher *service.Dispatcher
	voice      *service.VoicePipeline
	blobs      service.BlobStore
	catalog    *service.Catalog
	tgLogger   *telegram.TelegramLogger

	mu         sync.Mutex
	indicators map[int64]*telegram.Indicator
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Cfg        *config.Config
	Workspaces *service.Workspaces
	Dispatcher *service.Dispatcher
	Voice      *service.VoicePipeline
	Blobs      service.BlobStore
	Catalog    *service.Catalog
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:        deps.Bot,
		cfg:        deps.Cfg,
		workspaces: deps.Workspaces,
		dispatcher: deps.Dispatcher,
		voice:      deps.Voice,
		blobs:      deps.Blobs,
		catalog:    deps.Catalog,
		tgLogger:   deps.TgLogger,
		indicators: make(map[int64]*telegram.Indicator),
	}
}

// indicator returns the chat's busy indicator, shared by every exchange in
// flight for that chat.
func (h *Handler) indicator(b *bot.Bot, chatID int64) *telegram.Indicator {
	h.mu.Lock()
	defer h.mu.Unlock()

	in, ok := h.indicators[chatID]
	if !ok {
		in = telegram.NewIndicator(b, chatID, statusThinking)
		h.indicators[chatID] = in
	}
	return in
}
