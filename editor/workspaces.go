package editor

import (
	"context"
	"sync"
	"time"
)

type sessionWorkspace struct {
	workspace *Workspace
	expiresAt time.Time
}

// Workspaces keeps one Workspace per admin session id until the session expires.
type Workspaces struct {
	mu      sync.Mutex
	byID    map[string]sessionWorkspace
	factory func() *Workspace
	now     func() time.Time
}

func NewWorkspaces(factory func() *Workspace) *Workspaces {
	return &Workspaces{byID: make(map[string]sessionWorkspace), factory: factory, now: time.Now}
}

// Get returns the workspace of sessionID, creating and loading it on first use. Workspaces of
// sessions past their expiry are dropped on the way.
func (ws *Workspaces) Get(ctx context.Context, sessionID string, expiresAt time.Time) *Workspace {
	ws.mu.Lock()
	now := ws.now()
	for id, entry := range ws.byID {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(ws.byID, id)
		}
	}
	entry, ok := ws.byID[sessionID]
	if !ok {
		entry = sessionWorkspace{workspace: ws.factory(), expiresAt: expiresAt}
		ws.byID[sessionID] = entry
	}
	ws.mu.Unlock()

	if !ok {
		entry.workspace.Reload(ctx)
	}
	return entry.workspace
}

func (ws *Workspaces) Drop(sessionID string) {
	ws.mu.Lock()
	delete(ws.byID, sessionID)
	ws.mu.Unlock()
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.byID)
}
