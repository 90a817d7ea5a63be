package dragdrop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
	"github.com/bmexp/bmexp/internal/undo"
)

// ErrNoDropTarget is returned by Drop when nothing resolves under or near
// the pointer. Callers treat it as a silent no-op: an imprecise gesture is
// a common, expected outcome, not an error worth a notice.
var ErrNoDropTarget = errors.New("no valid drop target")

// Invalidator is notified after any successful mutation so the UI can
// reload every pane and the folder tree. Reloading everything is the
// simplest policy that keeps all views consistent.
type Invalidator interface {
	InvalidateAll()
}

// Session holds the ephemeral state of a single drag. At most one drag is
// live at a time. The mutex makes the capture-before-call discipline an
// explicit contract: completion handlers read a snapshot taken under the
// lock, never the shared fields, because End may clear them while a store
// call is still in flight.
type Session struct {
	mu             sync.Mutex
	active         bool
	draggedID      string
	sourceFolderID string
	lastTarget     *Candidate
	lastPosition   Position
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// DraggedID returns the id of the item being dragged, or "".
func (s *Session) DraggedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draggedID
}

// Hover returns the last confirmed hover target and position.
func (s *Session) Hover() (*Candidate, Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTarget, s.lastPosition
}

func (s *Session) begin(itemID, folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.draggedID = itemID
	s.sourceFolderID = folderID
	s.lastTarget = nil
}

func (s *Session) setHover(c *Candidate, p Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTarget = c
	s.lastPosition = p
}

func (s *Session) clearHover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTarget = nil
}

// snapshot copies everything a drop needs into locals.
func (s *Session) snapshot() (draggedID string, target *Candidate, pos Position, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draggedID, s.lastTarget, s.lastPosition, s.active
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.draggedID = ""
	s.sourceFolderID = ""
	s.lastTarget = nil
}

// Controller orchestrates the drag lifecycle: it delegates position math
// to the resolver and the resulting mutation plus its inverse to the undo
// log.
type Controller struct {
	store   store.Store
	log     *undo.Log
	hits    HitTester
	inv     Invalidator
	logger  zerolog.Logger
	session Session
}

// NewController creates a drag controller over the given collaborators.
func NewController(s store.Store, log *undo.Log, hits HitTester, inv Invalidator, logger zerolog.Logger) *Controller {
	return &Controller{
		store:  s,
		log:    log,
		hits:   hits,
		inv:    inv,
		logger: logger,
	}
}

// Session exposes the drag state for rendering (drag indicator).
func (c *Controller) Session() *Session {
	return &c.session
}

// Start begins a drag of itemID out of the folder it currently sits in.
func (c *Controller) Start(itemID, sourceFolderID string) {
	c.session.begin(itemID, sourceFolderID)
	c.logger.Debug().Str("item", itemID).Str("source", sourceFolderID).Msg("drag start")
}

// Over recomputes the drop target for the current pointer position. When
// the (target, position) pair changes, it is recorded as the confirmed
// hover pair, the primary source of truth at drop time, since drop
// coordinates can be stale by the time the drop fires.
func (c *Controller) Over(x, y int) (*Candidate, Position, bool) {
	draggedID, prev, prevPos, active := c.session.snapshot()
	if !active {
		return nil, 0, false
	}

	target, ok := Resolve(c.hits, x, y, draggedID)
	if !ok {
		return prev, prevPos, false
	}
	pos := Classify(*target, y)

	if prev != nil && prev.ID == target.ID && prevPos == pos {
		return prev, prevPos, false
	}
	c.session.setHover(target, pos)
	return target, pos, true
}

// Leave handles a leave event for the currently indicated target. The
// indicator is cleared only when the incoming candidate is neither the
// current target nor another valid candidate; leave events fire when the
// pointer crosses child elements of the same row, and clearing on those
// makes the indicator flicker.
func (c *Controller) Leave(incoming *Candidate) {
	draggedID, prev, _, active := c.session.snapshot()
	if !active || prev == nil {
		return
	}
	if incoming != nil && incoming.ID != draggedID {
		// Either still within the indicated target or about to confirm a
		// new one; suppress the clear.
		return
	}
	c.session.clearHover()
}

// Drop resolves the effective target with layered fallbacks and performs
// the move: (1) the last confirmed hover pair, (2) a fresh direct hit-test
// at the drop coordinates, (3) a fresh probe search, (4) the current
// folder of the pane under the pointer. Each layer is validated against
// the store, so a stale hover target falls through to the next. With no
// target at all the drop is a no-op.
func (c *Controller) Drop(ctx context.Context, x, y int, paneFolderID string) error {
	// Locals only past this point: End may clear the session while the
	// store calls below are in flight.
	draggedID, target, pos, active := c.session.snapshot()
	if !active {
		return ErrNoDropTarget
	}

	dragged, err := c.store.Get(ctx, draggedID)
	if err != nil {
		return err
	}

	targetNode, pos, err := c.effectiveTarget(ctx, draggedID, target, pos, x, y)
	if err != nil {
		if !errors.Is(err, ErrNoDropTarget) {
			return err
		}
		if paneFolderID == "" {
			return ErrNoDropTarget
		}
		targetNode, err = c.store.Get(ctx, paneFolderID)
		if err != nil {
			return err
		}
		pos = PositionInto
	}

	params, err := c.moveParams(dragged, targetNode, pos)
	if err != nil {
		return err
	}

	inverse := undo.Move{
		ItemID:   dragged.ID,
		ParentID: dragged.ParentID,
		Index:    dragged.Index,
	}

	if err := c.store.Move(ctx, dragged.ID, params); err != nil {
		c.logger.Warn().Err(err).Str("item", dragged.ID).Msg("drop move failed")
		return err
	}

	c.log.Push(inverse)
	c.logger.Debug().
		Str("item", dragged.ID).
		Str("target", targetNode.ID).
		Stringer("position", pos).
		Msg("drop")
	c.inv.InvalidateAll()
	return nil
}

// End finishes the drag, dropped or not. It always fires and clears the
// shared session state.
func (c *Controller) End() {
	c.session.end()
}

// effectiveTarget walks the fallback layers and returns the first target
// that still resolves in the store.
func (c *Controller) effectiveTarget(ctx context.Context, draggedID string, hover *Candidate, hoverPos Position, x, y int) (*model.Node, Position, error) {
	// Layer 1: last confirmed hover pair.
	if hover != nil && hover.ID != draggedID {
		if n, err := c.store.Get(ctx, hover.ID); err == nil {
			return n, hoverPos, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, 0, err
		}
	}

	// Layer 2: fresh direct hit-test at the drop coordinates.
	if hit := c.hits.CandidateAt(x, y); hit != nil && hit.ID != draggedID {
		if n, err := c.store.Get(ctx, hit.ID); err == nil {
			return n, Classify(*hit, y), nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, 0, err
		}
	}

	// Layer 3: fresh probe search around the drop coordinates.
	if hit, ok := ResolveWide(c.hits, x, y, draggedID); ok {
		if n, err := c.store.Get(ctx, hit.ID); err == nil {
			return n, Classify(*hit, y), nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, 0, err
		}
	}

	return nil, 0, ErrNoDropTarget
}

// moveParams computes the destination parent and index. Reordering next to
// a target adjusts by +1 for "after", then compensates for the
// removal-then-insert shift when moving later within the same parent.
func (c *Controller) moveParams(dragged, target *model.Node, pos Position) (store.MoveParams, error) {
	if pos == PositionInto {
		if !target.IsFolder() {
			return store.MoveParams{}, store.ErrNotFolder
		}
		// Append at the end of the folder.
		return store.MoveParams{ParentID: target.ID}, nil
	}

	index := target.Index
	if pos == PositionAfter {
		index++
	}
	if dragged.ParentID == target.ParentID && dragged.Index < index {
		index--
	}
	return store.MoveParams{
		ParentID: target.ParentID,
		Index:    store.IntPtr(index),
	}, nil
}
