package tui

import (
	"github.com/bmexp/bmexp/internal/dragdrop"
	"github.com/bmexp/bmexp/internal/model"
)

// Item is one row in a pane list.
type Item struct {
	Node model.Node
}

// ID returns the underlying node id.
func (i Item) ID() string {
	return i.Node.ID
}

// Title returns the display title.
func (i Item) Title() string {
	return i.Node.Title
}

// IsFolder returns true if this item is a folder.
func (i Item) IsFolder() bool {
	return i.Node.IsFolder()
}

// DropKind returns the drag-and-drop kind for this item.
func (i Item) DropKind() dragdrop.Kind {
	if i.IsFolder() {
		return dragdrop.KindFolder
	}
	return dragdrop.KindBookmark
}
