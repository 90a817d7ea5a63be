package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/bmexp/bmexp/internal/search"
	"github.com/bmexp/bmexp/internal/tui/layout"
)

// Mode is the current interaction mode of the app.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddBookmark
	ModeAddFolder
	ModeRename
	ModeConfirmDelete
	ModeSearch
	ModeHelp
)

// ModalState holds state for the add/rename modals.
type ModalState struct {
	TitleInput textinput.Model
	URLInput   textinput.Model
	Focus      int    // 0 = title, 1 = url
	EditItemID string // id of item being renamed

	// Pending delete confirmation
	DeleteItems []Item
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	urlInput := textinput.New()
	urlInput.Placeholder = "URL"
	urlInput.CharLimit = cfg.Input.URLCharLimit
	urlInput.Width = cfg.Input.StandardWidth

	return ModalState{
		TitleInput: titleInput,
		URLInput:   urlInput,
	}
}

// Reset clears all modal inputs for a new modal session.
func (m *ModalState) Reset() {
	m.TitleInput.Reset()
	m.URLInput.Reset()
	m.Focus = 0
	m.EditItemID = ""
	m.DeleteItems = nil
}

// SearchState holds state for the global search overlay.
type SearchState struct {
	Input   textinput.Model
	Results []search.Result
	Cursor  int
}

// NewSearchState creates a new SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search all..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return SearchState{Input: input}
}

// Reset clears the search state.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Results = nil
	s.Cursor = 0
}

// dragPress tracks a pressed-but-not-yet-dragging mouse button. The drag
// proper starts on the first motion event while pressed.
type dragPress struct {
	itemID  string
	paneIdx int
	started bool
}

// refreshSignal is the invalidation hook handed to the drag controller.
// Mutations flag it; the update loop consumes the flag and reloads panes.
type refreshSignal struct {
	mu    sync.Mutex
	dirty bool
}

// InvalidateAll implements dragdrop.Invalidator.
func (r *refreshSignal) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = true
}

func (r *refreshSignal) consume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.dirty
	r.dirty = false
	return d
}
