package undo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bmexp/bmexp/internal/store"
)

// DefaultCapacity is the number of actions the log retains before evicting
// the oldest.
const DefaultCapacity = 50

// ErrNothingToUndo is returned by Undo when the log is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// entry wraps an action with a creation timestamp. The timestamp is
// diagnostic only; stack order is authoritative.
type entry struct {
	action Action
	at     time.Time
}

// Log is a bounded LIFO stack of inverse actions over a bookmark store.
// Push and Undo may be called from tea.Cmd goroutines, so the stack is
// mutex-guarded; store calls run outside the lock.
type Log struct {
	mu       sync.Mutex
	store    store.Store
	entries  []entry
	capacity int
}

// NewLog creates a Log with DefaultCapacity over the given store.
func NewLog(s store.Store) *Log {
	return NewLogWithCapacity(s, DefaultCapacity)
}

// NewLogWithCapacity creates a Log holding at most capacity actions.
func NewLogWithCapacity(s store.Store, capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		store:    s,
		capacity: capacity,
	}
}

// Push appends an action; the oldest action is evicted beyond capacity.
// Call it only after the forward mutation has succeeded.
func (l *Log) Push(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry{action: a, at: time.Now()})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Undo pops the most recent action and replays its inverse through the
// store. On failure the popped action is discarded, not re-pushed: retry
// semantics against a store that has moved on are undefined.
//
// When the inverse recreates nodes (undoing a delete), the remaining
// entries that referenced the old ids are rewritten to the fresh ones, so
// a later undo of an older action still finds its target.
func (l *Log) Undo(ctx context.Context) (string, error) {
	l.mu.Lock()
	if len(l.entries) == 0 {
		l.mu.Unlock()
		return "", ErrNothingToUndo
	}
	e := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	l.mu.Unlock()

	ids, err := e.action.invert(ctx, l.store)
	if err != nil {
		return "", fmt.Errorf("undo failed: %w", err)
	}

	if len(ids) > 0 {
		l.mu.Lock()
		for i := range l.entries {
			l.entries[i].action = remapIDs(l.entries[i].action, ids)
		}
		l.mu.Unlock()
	}

	return e.action.Description(), nil
}

// CanUndo returns true if the log holds at least one action.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0
}

// Len returns the number of actions currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all actions. Used when the underlying database is swapped
// out (e.g. after an import), never on navigation.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
