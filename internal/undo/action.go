package undo

import (
	"context"
	"fmt"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

// Action is a recorded inverse operation capable of reverting exactly one
// structural or content mutation of the bookmark tree.
type Action interface {
	// Description returns a human-readable label for the reverted change.
	Description() string

	// invert replays the inverse operation through the store. When the
	// inverse recreates nodes, it returns a mapping from the original id
	// to the freshly assigned one so older log entries stay valid.
	invert(ctx context.Context, s store.Store) (map[string]string, error)
}

// Create records a node creation; its inverse deletes the created node
// (tree-delete if it is a folder).
type Create struct {
	CreatedID string
	Title     string
}

// Description implements Action.
func (a Create) Description() string {
	return fmt.Sprintf("removed %q", a.Title)
}

func (a Create) invert(ctx context.Context, s store.Store) (map[string]string, error) {
	return nil, deleteByID(ctx, s, a.CreatedID)
}

// Paste records a pasted node; same inverse as Create.
type Paste struct {
	CreatedID string
	Title     string
}

// Description implements Action.
func (a Paste) Description() string {
	return fmt.Sprintf("removed pasted %q", a.Title)
}

func (a Paste) invert(ctx context.Context, s store.Store) (map[string]string, error) {
	return nil, deleteByID(ctx, s, a.CreatedID)
}

// Delete records a deletion together with the full captured subtree; its
// inverse recreates the subtree at the original parent and index. The
// recreated nodes get fresh ids; only structure, titles, urls, and
// relative order are restored. Every captured id is reported back with its
// replacement so older entries referencing any node of the subtree, root
// or descendant, can be remapped.
type Delete struct {
	Subtree  model.Subtree
	ParentID string
	Index    int
}

// Description implements Action.
func (a Delete) Description() string {
	return fmt.Sprintf("restored %q", a.Subtree.Title)
}

func (a Delete) invert(ctx context.Context, s store.Store) (map[string]string, error) {
	ids := map[string]string{}
	if _, err := restoreSubtree(ctx, s, a.Subtree, a.ParentID, a.Index, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Rename records a title change; its inverse restores the original title.
type Rename struct {
	ItemID        string
	OriginalTitle string
}

// Description implements Action.
func (a Rename) Description() string {
	return fmt.Sprintf("renamed back to %q", a.OriginalTitle)
}

func (a Rename) invert(ctx context.Context, s store.Store) (map[string]string, error) {
	return nil, s.Update(ctx, a.ItemID, store.UpdateParams{Title: a.OriginalTitle})
}

// Move records a move; its inverse moves the node back to the original
// parent at the original index, taken verbatim from the pre-move snapshot.
type Move struct {
	ItemID   string
	ParentID string
	Index    int
}

// Description implements Action.
func (a Move) Description() string {
	return "moved back"
}

func (a Move) invert(ctx context.Context, s store.Store) (map[string]string, error) {
	return nil, s.Move(ctx, a.ItemID, store.MoveParams{
		ParentID: a.ParentID,
		Index:    store.IntPtr(a.Index),
	})
}

// remapIDs returns a copy of the action with any stale node references
// rewritten per the mapping.
func remapIDs(a Action, ids map[string]string) Action {
	switch v := a.(type) {
	case Create:
		if id, ok := ids[v.CreatedID]; ok {
			v.CreatedID = id
		}
		return v
	case Paste:
		if id, ok := ids[v.CreatedID]; ok {
			v.CreatedID = id
		}
		return v
	case Rename:
		if id, ok := ids[v.ItemID]; ok {
			v.ItemID = id
		}
		return v
	case Move:
		if id, ok := ids[v.ItemID]; ok {
			v.ItemID = id
		}
		if id, ok := ids[v.ParentID]; ok {
			v.ParentID = id
		}
		return v
	case Delete:
		if id, ok := ids[v.ParentID]; ok {
			v.ParentID = id
		}
		return v
	}
	return a
}

// deleteByID removes a node, re-checking folder status from the store
// rather than trusting what it was at creation time.
func deleteByID(ctx context.Context, s store.Store, id string) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.IsFolder() {
		return s.RemoveTree(ctx, id)
	}
	return s.Remove(ctx, id)
}

// restoreSubtree recreates a captured subtree pre-order: the node first,
// then its children under the freshly assigned id, index = position in the
// captured children slice. Every captured id is recorded in ids against
// the fresh one. Returns the new id of the subtree root.
func restoreSubtree(ctx context.Context, s store.Store, t model.Subtree, parentID string, index int, ids map[string]string) (string, error) {
	created, err := s.Create(ctx, store.CreateParams{
		ParentID: parentID,
		Title:    t.Title,
		URL:      t.URL,
		Index:    store.IntPtr(index),
	})
	if err != nil {
		return "", err
	}
	ids[t.ID] = created.ID
	for i, child := range t.Children {
		if _, err := restoreSubtree(ctx, s, child, created.ID, i, ids); err != nil {
			return "", err
		}
	}
	return created.ID, nil
}

// CaptureDelete snapshots a node's subtree, parent, and index ahead of a
// deletion. Call it before the forward RemoveTree/Remove is issued; push
// the result only once that mutation succeeds.
func CaptureDelete(ctx context.Context, s store.Store, id string) (Delete, error) {
	node, err := s.GetSubTree(ctx, id)
	if err != nil {
		return Delete{}, err
	}
	return Delete{
		Subtree:  model.CaptureSubtree(*node),
		ParentID: node.ParentID,
		Index:    node.Index,
	}, nil
}

// CaptureMove snapshots a node's parent and index ahead of a move.
func CaptureMove(ctx context.Context, s store.Store, id string) (Move, error) {
	node, err := s.Get(ctx, id)
	if err != nil {
		return Move{}, err
	}
	return Move{
		ItemID:   id,
		ParentID: node.ParentID,
		Index:    node.Index,
	}, nil
}

// CaptureRename snapshots a node's current title ahead of a rename.
func CaptureRename(ctx context.Context, s store.Store, id string) (Rename, error) {
	node, err := s.Get(ctx, id)
	if err != nil {
		return Rename{}, err
	}
	return Rename{
		ItemID:        id,
		OriginalTitle: node.Title,
	}, nil
}
