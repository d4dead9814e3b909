package store

import (
	"sync"
	"time"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"
)

// Workspace is everything one browser session sees: a campaign orchestrator,
// the chat panel and the alerts not yet shown to the user.
type Workspace struct {
	ID           string
	Orchestrator *studio.Orchestrator
	Chat         *studio.ChatPanel

	mu       sync.Mutex
	alerts   []string
	lastSeen time.Time
}

// Alert queues a user-facing message. It satisfies studio.Notifier.
func (w *Workspace) Alert(msg string) {
	w.mu.Lock()
	w.alerts = append(w.alerts, msg)
	w.mu.Unlock()
}

// DrainAlerts returns the queued alerts and clears them.
func (w *Workspace) DrainAlerts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.alerts
	w.alerts = nil
	return out
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Factory builds the components of a new workspace. The workspace itself is
// passed so the orchestrator can use it as its notifier.
type Factory func(ws *Workspace)

// MemoryStore keeps workspaces in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	ttl        time.Duration
	factory    Factory
	now        func() time.Time
}

func NewMemoryStore(ttl time.Duration, factory Factory) *MemoryStore {
	return &MemoryStore{
		workspaces: make(map[string]*Workspace),
		ttl:        ttl,
		factory:    factory,
		now:        time.Now,
	}
}

// GetOrCreate returns the workspace for sessionID, creating it on first use.
func (m *MemoryStore) GetOrCreate(sessionID string) *Workspace {
	now := m.now()
	m.mu.RLock()
	ws, ok := m.workspaces[sessionID]
	m.mu.RUnlock()
	if ok {
		ws.touch(now)
		return ws
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.workspaces[sessionID]; ok {
		ws.touch(now)
		return ws
	}
	ws = &Workspace{ID: sessionID, lastSeen: now}
	m.factory(ws)
	m.workspaces[sessionID] = ws
	return ws
}

// Touch marks ws as active now so Sweep keeps it.
func (m *MemoryStore) Touch(ws *Workspace) {
	ws.touch(m.now())
}

func (m *MemoryStore) Get(sessionID string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.workspaces[sessionID]
	return ws, ok
}

func (m *MemoryStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, sessionID)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Sweep drops workspaces idle for longer than the TTL and returns how many
// were removed. In-flight calls on a dropped workspace still finish; their
// results are simply unreachable.
func (m *MemoryStore) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, ws := range m.workspaces {
		if ws.idleSince(now) > m.ttl {
			delete(m.workspaces, id)
			n++
		}
	}
	return n
}
