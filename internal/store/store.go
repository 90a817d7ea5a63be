package store

import (
	"context"
	"errors"

	"github.com/bmexp/bmexp/internal/model"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when a node id does not resolve.
	ErrNotFound = errors.New("node not found")

	// ErrReservedNode is returned when a mutation targets the root or a
	// default top-level folder.
	ErrReservedNode = errors.New("node is reserved")

	// ErrNotEmpty is returned by Remove for a folder that still has
	// children. Use RemoveTree instead.
	ErrNotEmpty = errors.New("folder is not empty")

	// ErrNotFolder is returned when a bookmark is used as a destination
	// parent.
	ErrNotFolder = errors.New("node is not a folder")

	// ErrCycle is returned when a move would place a folder inside its own
	// subtree.
	ErrCycle = errors.New("cannot move a folder into its own subtree")
)

// CreateParams holds parameters for Create. A nil Index appends at the end
// of the parent's child list.
type CreateParams struct {
	ParentID string
	Title    string
	URL      string // empty = folder
	Index    *int
}

// UpdateParams holds parameters for Update.
type UpdateParams struct {
	Title string
}

// MoveParams holds parameters for Move. A nil Index appends at the end of
// the destination parent's child list. The index is interpreted against the
// sibling list after the node has been detached from its old position.
type MoveParams struct {
	ParentID string
	Index    *int
}

// Store is the bookmark store adapter: an ordered tree of bookmarks and
// folders with stable ids and dense sibling indices. All operations take a
// context and may fail with a store error; none are retried.
type Store interface {
	// Get returns a single node without children.
	Get(ctx context.Context, id string) (*model.Node, error)

	// GetChildren returns the ordered child list of a folder.
	GetChildren(ctx context.Context, id string) ([]model.Node, error)

	// GetSubTree returns a node with all descendants populated.
	GetSubTree(ctx context.Context, id string) (*model.Node, error)

	// GetTree returns the full forest: the root's children as complete
	// subtrees.
	GetTree(ctx context.Context) ([]model.Node, error)

	// Create inserts a new bookmark or folder and returns it.
	Create(ctx context.Context, params CreateParams) (*model.Node, error)

	// Update changes a node's title.
	Update(ctx context.Context, id string, params UpdateParams) error

	// Move reparents and/or reorders a node.
	Move(ctx context.Context, id string, params MoveParams) error

	// Remove deletes a bookmark or an empty folder.
	Remove(ctx context.Context, id string) error

	// RemoveTree deletes a node and all of its descendants.
	RemoveTree(ctx context.Context, id string) error

	// Search returns bookmarks and folders whose title or url contains the
	// query, case-insensitively.
	Search(ctx context.Context, query string) ([]model.Node, error)
}

// IntPtr returns a pointer to v, for use with CreateParams and MoveParams.
func IntPtr(v int) *int {
	return &v
}
