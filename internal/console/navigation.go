package console

import (
	"sync"
	"time"
)

// Navigation is a scheduled move to another page.
type Navigation struct {
	To    string
	Delay time.Duration
}

// DeferredNavigator keeps the last scheduled navigation until a page renders it.
type DeferredNavigator struct {
	mu      sync.Mutex
	pending *Navigation
}

func (n *DeferredNavigator) NavigateAfter(to string, delay time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = &Navigation{To: to, Delay: delay}
}

// Take returns the pending navigation and forgets it, so it fires at most once.
func (n *DeferredNavigator) Take() (Navigation, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		return Navigation{}, false
	}
	nav := *n.pending
	n.pending = nil
	return nav, true
}
