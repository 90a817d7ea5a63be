package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bmexp/bmexp/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStore implements Store using a SQLite database holding a single
// ordered tree of nodes.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema and the reserved root folders exist.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys and set pragmas for performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seedRoots(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStore) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			title TEXT NOT NULL,
			url TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES nodes(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);
		CREATE INDEX IF NOT EXISTS idx_nodes_url ON nodes(url);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedRoots inserts the root and the default top-level folders if missing.
func (s *SQLiteStore) seedRoots() error {
	roots := []struct {
		id       string
		title    string
		parent   any
		position int
	}{
		{model.RootID, "Bookmarks", nil, 0},
		{model.ToolbarID, "Bookmarks Bar", model.RootID, 0},
		{model.OtherID, "Other Bookmarks", model.RootID, 1},
		{model.MobileID, "Mobile Bookmarks", model.RootID, 2},
	}
	for _, r := range roots {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO nodes (id, parent_id, title, url, position)
			VALUES (?, ?, ?, NULL, ?)
		`, r.id, r.parent, r.title, r.position)
		if err != nil {
			return err
		}
	}
	return nil
}

// scanNode reads one node row: id, parent_id, title, url, position.
func scanNode(row interface{ Scan(...any) error }) (*model.Node, error) {
	var n model.Node
	var parentID, url sql.NullString
	if err := row.Scan(&n.ID, &parentID, &n.Title, &url, &n.Index); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.ParentID = parentID.String
	n.URL = url.String
	return &n, nil
}

const nodeColumns = "id, parent_id, title, url, position"

// Get returns a single node without children.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Node, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)
	return scanNode(row)
}

// GetChildren returns the ordered child list of a folder.
func (s *SQLiteStore) GetChildren(ctx context.Context, id string) ([]model.Node, error) {
	parent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !parent.IsFolder() {
		return nil, ErrNotFolder
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes WHERE parent_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := []model.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *n)
	}
	return children, rows.Err()
}

// GetSubTree returns a node with all descendants populated.
func (s *SQLiteStore) GetSubTree(ctx context.Context, id string) (*model.Node, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillChildren(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// fillChildren recursively populates Children for folder nodes.
func (s *SQLiteStore) fillChildren(ctx context.Context, n *model.Node) error {
	if !n.IsFolder() {
		return nil
	}
	children, err := s.GetChildren(ctx, n.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := s.fillChildren(ctx, &children[i]); err != nil {
			return err
		}
	}
	n.Children = children
	return nil
}

// GetTree returns the root's children as complete subtrees.
func (s *SQLiteStore) GetTree(ctx context.Context) ([]model.Node, error) {
	root, err := s.GetSubTree(ctx, model.RootID)
	if err != nil {
		return nil, err
	}
	return root.Children, nil
}

// Create inserts a new bookmark or folder and returns it. Siblings at or
// after the insertion index are shifted up to keep positions dense.
func (s *SQLiteStore) Create(ctx context.Context, params CreateParams) (*model.Node, error) {
	parent, err := s.Get(ctx, params.ParentID)
	if err != nil {
		return nil, fmt.Errorf("create: parent: %w", err)
	}
	if !parent.IsFolder() {
		return nil, ErrNotFolder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	count, err := childCount(ctx, tx, params.ParentID)
	if err != nil {
		return nil, err
	}

	index := count
	if params.Index != nil {
		index = clamp(*params.Index, 0, count)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE nodes SET position = position + 1
		WHERE parent_id = ? AND position >= ?
	`, params.ParentID, index); err != nil {
		return nil, err
	}

	node := model.NewNode(model.NewNodeParams{
		ParentID: params.ParentID,
		Title:    params.Title,
		URL:      params.URL,
		Index:    index,
	})

	var url any
	if node.URL != "" {
		url = node.URL
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (id, parent_id, title, url, position)
		VALUES (?, ?, ?, ?, ?)
	`, node.ID, node.ParentID, node.Title, url, node.Index); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &node, nil
}

// Update changes a node's title.
func (s *SQLiteStore) Update(ctx context.Context, id string, params UpdateParams) error {
	if model.IsReservedID(id) {
		return ErrReservedNode
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE nodes SET title = ? WHERE id = ?", params.Title, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Move reparents and/or reorders a node. The node is first detached from
// its old sibling list, then inserted into the destination list at the
// requested index (appended when Index is nil).
func (s *SQLiteStore) Move(ctx context.Context, id string, params MoveParams) error {
	if model.IsReservedID(id) {
		return ErrReservedNode
	}

	node, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	dest, err := s.Get(ctx, params.ParentID)
	if err != nil {
		return fmt.Errorf("move: destination: %w", err)
	}
	if !dest.IsFolder() {
		return ErrNotFolder
	}
	if err := s.checkCycle(ctx, id, params.ParentID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Detach: close the gap in the old sibling list.
	if _, err := tx.ExecContext(ctx, `
		UPDATE nodes SET position = position - 1
		WHERE parent_id = ? AND position > ?
	`, node.ParentID, node.Index); err != nil {
		return err
	}

	count, err := childCount(ctx, tx, params.ParentID)
	if err != nil {
		return err
	}
	if node.ParentID == params.ParentID {
		// The node itself is still counted among the destination siblings.
		count--
	}

	index := count
	if params.Index != nil {
		index = clamp(*params.Index, 0, count)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE nodes SET position = position + 1
		WHERE parent_id = ? AND position >= ? AND id != ?
	`, params.ParentID, index, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE nodes SET parent_id = ?, position = ? WHERE id = ?
	`, params.ParentID, index, id); err != nil {
		return err
	}

	return tx.Commit()
}

// checkCycle rejects a destination that lies inside the moved node's own
// subtree (including the node itself).
func (s *SQLiteStore) checkCycle(ctx context.Context, id, destID string) error {
	current := destID
	for current != "" {
		if current == id {
			return ErrCycle
		}
		n, err := s.Get(ctx, current)
		if err != nil {
			return err
		}
		current = n.ParentID
	}
	return nil
}

// Remove deletes a bookmark or an empty folder and closes the index gap.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if model.IsReservedID(id) {
		return ErrReservedNode
	}
	node, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if node.IsFolder() {
		count, err := childCount(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNotEmpty
		}
	}

	if err := deleteAndRenumber(ctx, tx, node); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveTree deletes a node and all of its descendants.
func (s *SQLiteStore) RemoveTree(ctx context.Context, id string) error {
	if model.IsReservedID(id) {
		return ErrReservedNode
	}
	node, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("remove tree: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Descendants go with the node via ON DELETE CASCADE.
	if err := deleteAndRenumber(ctx, tx, node); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteAndRenumber removes the node row and shifts later siblings down.
func deleteAndRenumber(ctx context.Context, tx *sql.Tx, node *model.Node) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", node.ID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE nodes SET position = position - 1
		WHERE parent_id = ? AND position > ?
	`, node.ParentID, node.Index)
	return err
}

// Search returns nodes whose title or url contains the query,
// case-insensitively, excluding the reserved roots.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]model.Node, error) {
	if strings.TrimSpace(query) == "" {
		return []model.Node{}, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes
		WHERE (LOWER(title) LIKE ? OR LOWER(COALESCE(url, '')) LIKE ?)
		  AND id NOT IN (?, ?, ?, ?)
		ORDER BY title
	`, pattern, pattern, model.RootID, model.ToolbarID, model.OtherID, model.MobileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *n)
	}
	return results, rows.Err()
}

// childCount returns the number of children of a folder within a
// transaction.
func childCount(ctx context.Context, tx *sql.Tx, parentID string) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM nodes WHERE parent_id = ?", parentID).Scan(&count)
	return count, err
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DefaultSQLitePath returns the default database path: ~/.config/bmexp/bookmarks.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmexp", "bookmarks.db"), nil
}
