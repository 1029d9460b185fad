package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	mu      sync.Mutex
	calls   int
	queries []string
	history [][]domain.Message
	answer  func(ctx context.Context, query string) (string, error)
}

func (f *fakeAssistant) Ask(ctx context.Context, query string, history []domain.Message) (string, error) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, query)
	f.history = append(f.history, history)
	f.mu.Unlock()
	return f.answer(ctx, query)
}

func answering(answer string) *fakeAssistant {
	return &fakeAssistant{answer: func(context.Context, string) (string, error) { return answer, nil }}
}

type recordingFeedback struct {
	mu      sync.Mutex
	busy    []bool
	cleared int
	failed  []error
}

func (f *recordingFeedback) Busy(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = append(f.busy, active)
}

func (f *recordingFeedback) ClearInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func (f *recordingFeedback) Failed(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, err)
}

func TestDispatcher_SendSuccess(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()
	assistant := answering("Here are three options.")
	fb := &recordingFeedback{}

	reply, sent := NewDispatcher(assistant).Send(context.Background(), store, id, "Find me a laptop", fb)

	require.True(t, sent)
	assert.Equal(t, domain.AssistantMessage("Here are three options."), reply)

	history, _ := store.History(id)
	assert.Equal(t, []domain.Message{
		domain.AssistantMessage(config.Greeting),
		domain.UserMessage("Find me a laptop"),
		domain.AssistantMessage("Here are three options."),
	}, history)

	assert.Equal(t, 1, assistant.calls)
	assert.Equal(t, []string{"Find me a laptop"}, assistant.queries)
	assert.Equal(t, []domain.Message{
		domain.AssistantMessage(config.Greeting),
		domain.UserMessage("Find me a laptop"),
	}, assistant.history[0])

	assert.Equal(t, []bool{true, false}, fb.busy)
	assert.Equal(t, 1, fb.cleared)
	assert.Empty(t, fb.failed)
}

func TestDispatcher_BlankTextIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		store := NewSessionStore()
		id := store.CurrentID()
		assistant := answering("unused")
		fb := &recordingFeedback{}

		_, sent := NewDispatcher(assistant).Send(context.Background(), store, id, text, fb)

		assert.False(t, sent)
		history, _ := store.History(id)
		assert.Len(t, history, 1)
		assert.Zero(t, assistant.calls)
		assert.Empty(t, fb.busy)
		assert.Zero(t, fb.cleared)
	}
}

func TestDispatcher_UnknownSessionIsNoop(t *testing.T) {
	store := NewSessionStore()
	assistant := answering("unused")

	_, sent := NewDispatcher(assistant).Send(context.Background(), store, "missing", "hello", nil)

	assert.False(t, sent)
	assert.Zero(t, assistant.calls)
}

func TestDispatcher_FailureAppendsErrorReply(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()
	boom := errors.New("connection refused")
	assistant := &fakeAssistant{answer: func(context.Context, string) (string, error) { return "", boom }}
	fb := &recordingFeedback{}

	reply, sent := NewDispatcher(assistant).Send(context.Background(), store, id, "hello", fb)

	require.True(t, sent)
	assert.Equal(t, domain.AssistantMessage(config.ErrorReply), reply)

	history, _ := store.History(id)
	require.Len(t, history, 3)
	assert.Equal(t, domain.UserMessage("hello"), history[1])
	assert.Equal(t, domain.AssistantMessage(config.ErrorReply), history[2])

	require.Len(t, fb.failed, 1)
	assert.ErrorIs(t, fb.failed[0], boom)
	assert.Equal(t, []bool{true, false}, fb.busy)
	assert.Equal(t, 1, fb.cleared)
}

func TestDispatcher_TimeoutTakesFailurePath(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()
	assistant := &fakeAssistant{answer: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	fb := &recordingFeedback{}

	reply, sent := NewDispatcher(assistant).WithTimeout(20*time.Millisecond).
		Send(context.Background(), store, id, "hello", fb)

	require.True(t, sent)
	assert.Equal(t, config.ErrorReply, reply.Content)
	require.Len(t, fb.failed, 1)
	assert.ErrorIs(t, fb.failed[0], context.DeadlineExceeded)
	assert.Equal(t, []bool{true, false}, fb.busy)
}

func TestDispatcher_WithRemoteStatus500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewSessionStore()
	id := store.CurrentID()
	fb := &recordingFeedback{}

	var reply domain.Message
	assert.NotPanics(t, func() {
		reply, _ = NewDispatcher(NewAssistantClient(srv.URL)).Send(context.Background(), store, id, "hello", fb)
	})

	assert.Equal(t, domain.AssistantMessage(config.ErrorReply), reply)
	require.Len(t, fb.failed, 1)
	assert.ErrorIs(t, fb.failed[0], domain.ErrRemoteStatus)

	history, _ := store.History(id)
	assert.Len(t, history, 3)
}

func TestDispatcher_WithRemoteAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "Here are three options."})
	}))
	defer srv.Close()

	store := NewSessionStore()
	id := store.CurrentID()

	reply, sent := NewDispatcher(NewAssistantClient(srv.URL)).Send(context.Background(), store, id, "laptops?", nil)

	require.True(t, sent)
	assert.Equal(t, "Here are three options.", reply.Content)
	history, _ := store.History(id)
	assert.Equal(t, domain.AssistantMessage("Here are three options."), history[2])
}

func TestDispatcher_RepliesLandInArrivalOrder(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	assistant := &fakeAssistant{answer: func(_ context.Context, query string) (string, error) {
		if query == "first" {
			close(firstStarted)
			<-releaseFirst
		}
		return "re: " + query, nil
	}}
	d := NewDispatcher(assistant)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Send(context.Background(), store, id, "first", nil)
	}()
	<-firstStarted

	d.Send(context.Background(), store, id, "second", nil)
	close(releaseFirst)
	<-done

	history, _ := store.History(id)
	assert.Equal(t, []domain.Message{
		domain.AssistantMessage(config.Greeting),
		domain.UserMessage("first"),
		domain.UserMessage("second"),
		domain.AssistantMessage("re: second"),
		domain.AssistantMessage("re: first"),
	}, history)
}

func TestDispatcher_NetTwoMessagesPerSend(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()
	calls := 0
	assistant := &fakeAssistant{answer: func(context.Context, string) (string, error) {
		calls++
		if calls%2 == 0 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	}}
	d := NewDispatcher(assistant)

	for i := 0; i < 4; i++ {
		before, _ := store.History(id)
		d.Send(context.Background(), store, id, "question", nil)
		after, _ := store.History(id)
		assert.Len(t, after, len(before)+2)
	}
}

func TestDispatcher_ConcurrentSendsCarryExactPriorLog(t *testing.T) {
	store := NewSessionStore()
	id := store.CurrentID()
	assistant := answering("ok")
	d := NewDispatcher(assistant)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Send(context.Background(), store, id, fmt.Sprintf("q%d", i), nil)
		}()
	}
	wg.Wait()

	log, _ := store.History(id)
	require.Len(t, log, 1+2*20)
	require.Len(t, assistant.history, 20)

	for _, sent := range assistant.history {
		own := sent[len(sent)-1]
		require.Equal(t, domain.RoleUser, own.Role)
		pos := slices.Index(log, own)
		require.GreaterOrEqual(t, pos, 0)
		assert.Equal(t, log[:pos], sent[:len(sent)-1], "history for %q", own.Content)
	}
}
