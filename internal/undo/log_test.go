package undo_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
	"github.com/bmexp/bmexp/internal/undo"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "bookmarks.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLog_UndoCreate(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	n, err := s.Create(ctx, store.CreateParams{
		ParentID: model.ToolbarID,
		Title:    "Example",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)
	log.Push(undo.Create{CreatedID: n.ID, Title: n.Title})

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	_, err = s.Get(ctx, n.ID)
	assert.Assert(t, errors.Is(err, store.ErrNotFound), "created node should be gone after undo")
	assert.Equal(t, log.Len(), 0)
}

func TestLog_UndoCreateOfFolderTreeDeletes(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	folder, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "dir"})
	assert.NilError(t, err)
	log.Push(undo.Create{CreatedID: folder.ID, Title: folder.Title})

	// Content added after the create; folder status is re-checked from the
	// store, so the undo must tree-delete.
	_, err = s.Create(ctx, store.CreateParams{
		ParentID: folder.ID,
		Title:    "later",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	_, err = s.Get(ctx, folder.ID)
	assert.Assert(t, errors.Is(err, store.ErrNotFound))
}

func TestLog_UndoRename(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	n, err := s.Create(ctx, store.CreateParams{
		ParentID: model.ToolbarID,
		Title:    "original",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)

	action, err := undo.CaptureRename(ctx, s, n.ID)
	assert.NilError(t, err)
	assert.NilError(t, s.Update(ctx, n.ID, store.UpdateParams{Title: "changed"}))
	log.Push(action)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	got, err := s.Get(ctx, n.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Title, "original")
}

func TestLog_UndoMoveRestoresExactIndex(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"a", "b", "c", "d"} {
		n, err := s.Create(ctx, store.CreateParams{
			ParentID: model.ToolbarID,
			Title:    title,
			URL:      "https://example.com/" + title,
		})
		assert.NilError(t, err)
		ids = append(ids, n.ID)
	}

	// Inverse is captured before the forward move commits.
	action, err := undo.CaptureMove(ctx, s, ids[1])
	assert.NilError(t, err)
	assert.NilError(t, s.Move(ctx, ids[1], store.MoveParams{ParentID: model.OtherID}))
	log.Push(action)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	got, err := s.Get(ctx, ids[1])
	assert.NilError(t, err)
	assert.Equal(t, got.ParentID, model.ToolbarID)
	assert.Equal(t, got.Index, 1)
}

func TestLog_UndoDeleteRestoresSubtree(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	// toolbar: [before, dir[leaf1, sub[leaf2]], after]
	s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "before", URL: "https://b.example"})
	dir, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "dir"})
	assert.NilError(t, err)
	s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "after", URL: "https://a.example"})
	s.Create(ctx, store.CreateParams{ParentID: dir.ID, Title: "leaf1", URL: "https://1.example"})
	sub, err := s.Create(ctx, store.CreateParams{ParentID: dir.ID, Title: "sub"})
	assert.NilError(t, err)
	s.Create(ctx, store.CreateParams{ParentID: sub.ID, Title: "leaf2", URL: "https://2.example"})

	action, err := undo.CaptureDelete(ctx, s, dir.ID)
	assert.NilError(t, err)
	assert.NilError(t, s.RemoveTree(ctx, dir.ID))
	log.Push(action)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	// Recreated ids differ; compare structure by title/url/position.
	children, err := s.GetChildren(ctx, model.ToolbarID)
	assert.NilError(t, err)
	assert.Equal(t, len(children), 3)
	assert.Equal(t, children[0].Title, "before")
	assert.Equal(t, children[1].Title, "dir")
	assert.Equal(t, children[2].Title, "after")

	restored, err := s.GetSubTree(ctx, children[1].ID)
	assert.NilError(t, err)
	assert.Assert(t, restored.ID != dir.ID, "restored folder must have a fresh id")
	assert.Equal(t, len(restored.Children), 2)
	assert.Equal(t, restored.Children[0].Title, "leaf1")
	assert.Equal(t, restored.Children[0].URL, "https://1.example")
	assert.Equal(t, restored.Children[1].Title, "sub")
	assert.Equal(t, len(restored.Children[1].Children), 1)
	assert.Equal(t, restored.Children[1].Children[0].URL, "https://2.example")
}

func TestLog_UndoDeleteRemapsDescendantReferences(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	dir, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "dir"})
	assert.NilError(t, err)
	leaf, err := s.Create(ctx, store.CreateParams{
		ParentID: dir.ID,
		Title:    "leaf",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)

	// Older action referencing the descendant, then the whole folder is
	// deleted and restored under fresh ids.
	ren, err := undo.CaptureRename(ctx, s, leaf.ID)
	assert.NilError(t, err)
	assert.NilError(t, s.Update(ctx, leaf.ID, store.UpdateParams{Title: "changed"}))
	log.Push(ren)

	del, err := undo.CaptureDelete(ctx, s, dir.ID)
	assert.NilError(t, err)
	assert.NilError(t, s.RemoveTree(ctx, dir.ID))
	log.Push(del)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	// The rename entry was remapped to the recreated leaf, so it still
	// finds its target.
	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	children, err := s.GetChildren(ctx, model.ToolbarID)
	assert.NilError(t, err)
	restored, err := s.GetSubTree(ctx, children[0].ID)
	assert.NilError(t, err)
	assert.Equal(t, len(restored.Children), 1)
	assert.Equal(t, restored.Children[0].Title, "leaf")
}

func TestLog_UndoPaste(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	n, err := s.Create(ctx, store.CreateParams{
		ParentID: model.ToolbarID,
		Title:    "copy",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)
	log.Push(undo.Paste{CreatedID: n.ID, Title: n.Title})

	desc, err := log.Undo(ctx)
	assert.NilError(t, err)
	assert.Equal(t, desc, `removed pasted "copy"`)

	_, err = s.Get(ctx, n.ID)
	assert.Assert(t, errors.Is(err, store.ErrNotFound))
}

func TestLog_UndoPasteOfFolderTreeDeletes(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	folder, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "dir"})
	assert.NilError(t, err)
	log.Push(undo.Paste{CreatedID: folder.ID, Title: folder.Title})

	// Folder status is re-checked from the store at undo time, so the
	// pasted folder's contents go with it.
	_, err = s.Create(ctx, store.CreateParams{
		ParentID: folder.ID,
		Title:    "inside",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)

	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	_, err = s.Get(ctx, folder.ID)
	assert.Assert(t, errors.Is(err, store.ErrNotFound))
}

func TestLog_StackBound(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	// Push 60 renames against one real node; only the 50 most recent stay.
	n, err := s.Create(ctx, store.CreateParams{
		ParentID: model.ToolbarID,
		Title:    "title-59",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)

	for i := 0; i < 60; i++ {
		log.Push(undo.Rename{ItemID: n.ID, OriginalTitle: fmt.Sprintf("title-%d", i)})
	}
	assert.Equal(t, log.Len(), 50)

	// Most recent kept: the first undo restores title-59.
	desc, err := log.Undo(ctx)
	assert.NilError(t, err)
	assert.Equal(t, desc, `renamed back to "title-59"`)

	for i := 0; i < 49; i++ {
		_, err := log.Undo(ctx)
		assert.NilError(t, err)
	}
	assert.Equal(t, log.Len(), 0)

	_, err = log.Undo(ctx)
	assert.Assert(t, errors.Is(err, undo.ErrNothingToUndo))
}

func TestLog_FailedUndoDiscardsAction(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	n, err := s.Create(ctx, store.CreateParams{
		ParentID: model.ToolbarID,
		Title:    "doomed",
		URL:      "https://example.com",
	})
	assert.NilError(t, err)
	log.Push(undo.Create{CreatedID: n.ID, Title: n.Title})

	// Out-of-band removal: the inverse's target id no longer resolves.
	assert.NilError(t, s.Remove(ctx, n.ID))

	_, err = log.Undo(ctx)
	assert.Assert(t, errors.Is(err, store.ErrNotFound))

	// The action was dropped, not re-pushed.
	assert.Equal(t, log.Len(), 0)
	_, err = log.Undo(ctx)
	assert.Assert(t, errors.Is(err, undo.ErrNothingToUndo))
}

func TestLog_EndToEndCreateDeleteUndoUndo(t *testing.T) {
	s := newTestStore(t)
	log := undo.NewLog(s)
	ctx := context.Background()

	baseline, err := s.GetChildren(ctx, model.OtherID)
	assert.NilError(t, err)

	// Create folder "Test".
	folder, err := s.Create(ctx, store.CreateParams{ParentID: model.OtherID, Title: "Test"})
	assert.NilError(t, err)
	log.Push(undo.Create{CreatedID: folder.ID, Title: folder.Title})

	// Delete it, capturing the (empty) subtree first.
	del, err := undo.CaptureDelete(ctx, s, folder.ID)
	assert.NilError(t, err)
	assert.NilError(t, s.RemoveTree(ctx, folder.ID))
	log.Push(del)

	// Undo the delete: "Test" comes back under a fresh id, and the older
	// Create entry is remapped to it.
	_, err = log.Undo(ctx)
	assert.NilError(t, err)
	children, err := s.GetChildren(ctx, model.OtherID)
	assert.NilError(t, err)
	assert.Equal(t, len(children), len(baseline)+1)
	assert.Equal(t, children[len(children)-1].Title, "Test")
	assert.Assert(t, children[len(children)-1].ID != folder.ID, "restored folder gets a fresh id")

	// Undo the create: "Test" disappears again; tree back to baseline.
	_, err = log.Undo(ctx)
	assert.NilError(t, err)

	final, err := s.GetChildren(ctx, model.OtherID)
	assert.NilError(t, err)
	assert.Equal(t, len(final), len(baseline))
	assert.Equal(t, log.Len(), 0)
}
