package pane

import (
	"context"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

// Pane is an independently navigable view of the bookmark tree: a current
// folder, a back/forward history, and a selection set. Up to two panes are
// visible at a time; each owns its state and nothing else.
//
// Structural mutations elsewhere never touch the current folder or the
// history; the app reloads pane contents after any mutation instead.
type Pane struct {
	history      []string
	historyIndex int
	selection    map[string]bool
}

// New creates a Pane showing the given folder.
func New(folderID string) *Pane {
	return &Pane{
		history:      []string{folderID},
		historyIndex: 0,
		selection:    make(map[string]bool),
	}
}

// CurrentFolderID returns the folder currently displayed.
func (p *Pane) CurrentFolderID() string {
	return p.history[p.historyIndex]
}

// Navigate moves the pane to folderID and clears the selection. With
// addToHistory, any forward entries are truncated before the new folder is
// appended, matching browser history. Back/forward navigation
// passes false to replay history without mutating it.
func (p *Pane) Navigate(folderID string, addToHistory bool) {
	p.ClearSelection()
	if !addToHistory {
		return
	}
	p.history = append(p.history[:p.historyIndex+1], folderID)
	p.historyIndex = len(p.history) - 1
}

// CanBack reports whether a back navigation is possible.
func (p *Pane) CanBack() bool {
	return p.historyIndex > 0
}

// CanForward reports whether a forward navigation is possible.
func (p *Pane) CanForward() bool {
	return p.historyIndex < len(p.history)-1
}

// Back moves one step back in history. Returns the new current folder and
// false when already at the oldest entry.
func (p *Pane) Back() (string, bool) {
	if !p.CanBack() {
		return p.CurrentFolderID(), false
	}
	p.historyIndex--
	p.Navigate(p.CurrentFolderID(), false)
	return p.CurrentFolderID(), true
}

// Forward moves one step forward in history.
func (p *Pane) Forward() (string, bool) {
	if !p.CanForward() {
		return p.CurrentFolderID(), false
	}
	p.historyIndex++
	p.Navigate(p.CurrentFolderID(), false)
	return p.CurrentFolderID(), true
}

// Up navigates to the current folder's parent, looked up via the store.
// At the root it is a no-op.
func (p *Pane) Up(ctx context.Context, s store.Store) (string, bool, error) {
	current := p.CurrentFolderID()
	if current == model.RootID {
		return current, false, nil
	}
	node, err := s.Get(ctx, current)
	if err != nil {
		return current, false, err
	}
	if node.ParentID == "" {
		return current, false, nil
	}
	p.Navigate(node.ParentID, true)
	return node.ParentID, true, nil
}

// Toggle adds or removes an item from the selection.
func (p *Pane) Toggle(id string) {
	if p.selection[id] {
		delete(p.selection, id)
	} else {
		p.selection[id] = true
	}
}

// Select adds an item to the selection.
func (p *Pane) Select(id string) {
	p.selection[id] = true
}

// IsSelected returns true if the item is selected.
func (p *Pane) IsSelected(id string) bool {
	return p.selection[id]
}

// SelectionCount returns the number of selected items.
func (p *Pane) SelectionCount() int {
	return len(p.selection)
}

// SelectedIDs returns the selected item ids in no particular order.
func (p *Pane) SelectedIDs() []string {
	ids := make([]string, 0, len(p.selection))
	for id := range p.selection {
		ids = append(ids, id)
	}
	return ids
}

// ClearSelection empties the selection set.
func (p *Pane) ClearSelection() {
	p.selection = make(map[string]bool)
}
