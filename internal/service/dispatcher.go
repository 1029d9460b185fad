package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
)

// Assistant answers a query given the conversation so far.
type Assistant interface {
	Ask(ctx context.Context, query string, history []domain.Message) (string, error)
}

// Feedback receives interface signals for a single exchange.
type Feedback interface {
	Busy(active bool)
	ClearInput()
	Failed(err error)
}

type noFeedback struct{}

func (noFeedback) Busy(bool)    {}
func (noFeedback) ClearInput()  {}
func (noFeedback) Failed(error) {}

// Dispatcher runs one user turn: optimistic append, remote call, reply.
//
// Concurrent sends are not serialized. Each user message is appended when
// Send is called and each reply when its request settles, so replies land
// in arrival order.
type Dispatcher struct {
	assistant Assistant
	timeout   time.Duration
}

func NewDispatcher(assistant Assistant) *Dispatcher {
	return &Dispatcher{assistant: assistant, timeout: config.ChatRequestTimeout}
}

// WithTimeout overrides the per-request timeout.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Send posts text to the session and appends the assistant's reply, or the
// fixed error reply when the exchange fails. It reports false when nothing
// was sent: blank text or an unknown session.
func (d *Dispatcher) Send(ctx context.Context, store *SessionStore, sessionID, text string, fb Feedback) (domain.Message, bool) {
	if fb == nil {
		fb = noFeedback{}
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, false
	}

	userMsg := domain.UserMessage(text)
	history, ok := store.AppendUser(sessionID, userMsg)
	if !ok {
		slog.Warn("send skipped", "session_id", sessionID, "error", domain.ErrSessionNotFound)
		return domain.Message{}, false
	}
	history = append(history, userMsg)

	fb.Busy(true)
	defer func() {
		fb.ClearInput()
		fb.Busy(false)
	}()

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	answer, err := d.assistant.Ask(reqCtx, text, history)
	if err != nil {
		slog.Error("assistant request failed",
			"session_id", sessionID,
			"history_len", len(history),
			"duration", time.Since(start),
			"error", err,
		)
		reply := domain.AssistantMessage(config.ErrorReply)
		store.Append(sessionID, reply)
		fb.Failed(err)
		return reply, true
	}

	slog.Debug("assistant replied", "session_id", sessionID, "duration", time.Since(start))
	reply := domain.AssistantMessage(answer)
	store.Append(sessionID, reply)
	return reply, true
}
