package service

import (
	"sync"
)

// Workspace is the state behind one chat window: its sessions and the bits
// of interface state that outlive a single update.
type Workspace struct {
	Sessions *SessionStore

	mu       sync.Mutex
	renameID string
	input    string
	inFlight int
}

func NewWorkspace() *Workspace {
	return &Workspace{Sessions: NewSessionStore()}
}

// BeginRename puts the workspace into title-editing mode for a session.
func (w *Workspace) BeginRename(sessionID string) bool {
	if _, ok := w.Sessions.Get(sessionID); !ok {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.renameID = sessionID
	return true
}

// TakeRename returns the session being renamed and leaves editing mode.
func (w *Workspace) TakeRename() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.renameID
	w.renameID = ""
	return id, id != ""
}

func (w *Workspace) CancelRename() bool {
	_, ok := w.TakeRename()
	return ok
}

func (w *Workspace) SetInput(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.input = text
}

func (w *Workspace) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

func (w *Workspace) ClearInput() {
	w.SetInput("")
}

// MarkBusy tracks outstanding exchanges. It returns the number in flight
// after the change.
func (w *Workspace) MarkBusy(active bool) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if active {
		w.inFlight++
	} else if w.inFlight > 0 {
		w.inFlight--
	}
	return w.inFlight
}

func (w *Workspace) InFlight() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight > 0
}

// Workspaces keeps one Workspace per chat for the lifetime of the process.
type Workspaces struct {
	mu    sync.Mutex
	items map[int64]*Workspace
}

func NewWorkspaces() *Workspaces {
	return &Workspaces{items: make(map[int64]*Workspace)}
}

func (r *Workspaces) Get(chatID int64) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.items[chatID]
	if !ok {
		ws = NewWorkspace()
		r.items[chatID] = ws
	}
	return ws
}

func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
