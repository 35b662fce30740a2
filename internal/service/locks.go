package service

import (
	"sync"

	"github.com/splitvest/splitvest/internal/models"
)

// groupLocks serializes ledger mutations per group. Every expense application
// and settlement for a group runs under that group's mutex, so concurrent
// read-modify-write windows on the same pair cannot interleave destructively.
type groupLocks struct {
	mu    sync.Mutex
	locks map[models.GroupID]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[models.GroupID]*sync.Mutex)}
}

// forGroup returns the mutex for a group, creating it on first use.
// Locks are never removed; the map grows with the number of active groups,
// which is small relative to their balance data.
func (g *groupLocks) forGroup(id models.GroupID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[id] = lock
	}
	return lock
}
