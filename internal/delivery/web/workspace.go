package web

import (
	"sync"
	"time"

	"thinqor-ats/internal/console"
)

type workspaceEntry struct {
	ws       *console.Workspace
	lastSeen time.Time
}

// WorkspaceStore keeps one console workspace per browser session and drops idle ones.
type WorkspaceStore struct {
	mu        sync.Mutex
	items     map[string]*workspaceEntry
	idle      time.Duration
	nextSweep time.Time
	create    func() *console.Workspace
	now       func() time.Time
}

func NewWorkspaceStore(idle time.Duration, create func() *console.Workspace) *WorkspaceStore {
	return &WorkspaceStore{
		items:  make(map[string]*workspaceEntry),
		idle:   idle,
		create: create,
		now:    time.Now,
	}
}

// Get returns the workspace for id, creating it on first use.
func (s *WorkspaceStore) Get(id string) *console.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.nextSweep) {
		for key, e := range s.items {
			if now.Sub(e.lastSeen) > s.idle {
				delete(s.items, key)
			}
		}
		s.nextSweep = now.Add(time.Minute)
	}

	e, ok := s.items[id]
	if !ok {
		e = &workspaceEntry{ws: s.create()}
		s.items[id] = e
	}
	e.lastSeen = now
	return e.ws
}

func (s *WorkspaceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
