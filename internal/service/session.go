package service

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
)

// SessionStore is the in-memory set of chat sessions for one chat window
// plus the pointer to the current one. All mutation goes through its
// methods; readers only ever receive copies.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*domain.ChatSession
	order     []string
	currentID string
	now       func() time.Time
}

// NewSessionStore returns a store seeded with one session, which is current.
func NewSessionStore() *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*domain.ChatSession),
		now:      time.Now,
	}
	s.Create()
	return s
}

// Create adds a seeded session at the end of the list and makes it current.
func (s *SessionStore) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID()
	for s.sessions[id] != nil {
		id = newSessionID()
	}

	s.sessions[id] = &domain.ChatSession{
		ID:        id,
		Title:     config.DefaultTitle,
		Messages:  []domain.Message{domain.AssistantMessage(config.Greeting)},
		CreatedAt: s.now(),
	}
	s.order = append(s.order, id)
	s.currentID = id
	return id
}

// Select moves the current pointer. Unknown ids are ignored.
func (s *SessionStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.currentID = id
	return true
}

// Rename sets a session title. Blank titles and unknown ids are ignored.
func (s *SessionStore) Rename(id, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Title = title
	return true
}

// Append adds msg to the end of a session log. The first user message of an
// untitled session also names it.
func (s *SessionStore) Append(id string, msg domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if msg.Role == domain.RoleUser && sess.Title == config.DefaultTitle && len(sess.Messages) == 1 {
		sess.Title = DeriveTitle(msg.Content)
	}
	sess.Messages = append(sess.Messages, msg)
	return true
}

// AppendUser appends a user message and returns the log as it was just
// before the append, in one critical section.
func (s *SessionStore) AppendUser(id string, msg domain.Message) ([]domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	before := slices.Clone(sess.Messages)
	if msg.Role == domain.RoleUser && sess.Title == config.DefaultTitle && len(sess.Messages) == 1 {
		sess.Title = DeriveTitle(msg.Content)
	}
	sess.Messages = append(sess.Messages, msg)
	return before, true
}

func (s *SessionStore) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

func (s *SessionStore) Current() (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(s.currentID)
}

func (s *SessionStore) Get(id string) (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(id)
}

// History returns a copy of a session's message log.
func (s *SessionStore) History(id string) ([]domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(sess.Messages), true
}

// List returns all sessions in creation order.
func (s *SessionStore) List() []domain.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChatSession, 0, len(s.order))
	for _, id := range s.order {
		sess, _ := s.snapshot(id)
		out = append(out, sess)
	}
	return out
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// snapshot must be called with the lock held.
func (s *SessionStore) snapshot(id string) (domain.ChatSession, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ChatSession{}, false
	}
	out := *sess
	out.Messages = slices.Clone(sess.Messages)
	return out, true
}

// DeriveTitle builds a session title from the first words of a message.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) > config.TitleWords {
		words = words[:config.TitleWords]
	}
	return strings.Join(words, " ") + config.TitleSuffix
}

func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}
