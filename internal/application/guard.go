package application

import (
	"sync"

	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// CloneGuard serializes publish, sync, and retry operations against local
// clones. Git operations on one working tree must never interleave, so each
// service takes the guard for the clone path before its first VCS call and
// holds it through the stash restore.
//
// Acquisition never blocks: a busy clone answers ErrBusy immediately, which
// is also how a cancel request "prevents starting" a new operation without
// interrupting one in flight.
type CloneGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

// NewCloneGuard creates an empty guard.
func NewCloneGuard() *CloneGuard {
	return &CloneGuard{busy: make(map[string]bool)}
}

// TryAcquire marks the clone path busy and returns a release function.
// Returns ErrBusy when another operation already holds the path.
func (g *CloneGuard) TryAcquire(clonePath string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy[clonePath] {
		return nil, driven.ErrBusy
	}
	g.busy[clonePath] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, clonePath)
			g.mu.Unlock()
		})
	}
	return release, nil
}
