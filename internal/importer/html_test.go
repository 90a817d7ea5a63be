package importer_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmexp/bmexp/internal/importer"
	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	forest, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(forest) != 1 {
		t.Fatalf("expected 1 root item, got %d", len(forest))
	}

	b := forest[0]
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
}

func TestParseHTML_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	forest, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(forest) != 2 {
		t.Fatalf("expected 2 root items, got %d", len(forest))
	}

	dev := forest[0]
	if dev.Title != "Development" || dev.URL != "" {
		t.Fatalf("expected Development folder first, got %+v", dev)
	}
	if len(dev.Children) != 2 {
		t.Fatalf("expected 2 children in Development, got %d", len(dev.Children))
	}

	react := dev.Children[0]
	if react.Title != "React" || react.URL != "" {
		t.Errorf("expected React folder as first child, got %+v", react)
	}
	if len(react.Children) != 1 || react.Children[0].Title != "React Docs" {
		t.Errorf("expected React Docs inside React, got %+v", react.Children)
	}

	if dev.Children[1].Title != "GitHub" {
		t.Errorf("expected GitHub as second child of Development, got %q", dev.Children[1].Title)
	}

	if forest[1].Title != "Google" {
		t.Errorf("expected Google at root level, got %q", forest[1].Title)
	}
}

func TestParseHTML_EmptyFile(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
</DL><p>`

	forest, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(forest) != 0 {
		t.Errorf("expected empty forest, got %d items", len(forest))
	}
}

func TestParseHTML_MissingHref(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A ADD_DATE="1234567890">No URL</A>
    <DT><A HREF="https://valid.com" ADD_DATE="1234567890">Valid</A>
</DL><p>`

	forest, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should skip bookmark without HREF, keep valid one
	if len(forest) != 1 {
		t.Fatalf("expected 1 item (skip missing href), got %d", len(forest))
	}

	if forest[0].Title != "Valid" {
		t.Errorf("expected 'Valid' bookmark, got %q", forest[0].Title)
	}
}

func TestImport_CreatesHierarchyInStore(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com">Google</A>
</DL><p>`

	created, err := importer.Import(ctx, s, model.ToolbarID, strings.NewReader(html))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if created != 3 {
		t.Errorf("expected 3 nodes created, got %d", created)
	}

	children, err := s.GetChildren(ctx, model.ToolbarID)
	if err != nil {
		t.Fatalf("get children failed: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children under toolbar, got %d", len(children))
	}
	if children[0].Title != "Development" || !children[0].IsFolder() {
		t.Errorf("expected Development folder first, got %+v", children[0])
	}
	if children[1].Title != "Google" {
		t.Errorf("expected Google second, got %+v", children[1])
	}

	inside, err := s.GetChildren(ctx, children[0].ID)
	if err != nil {
		t.Fatalf("get children failed: %v", err)
	}
	if len(inside) != 1 || inside[0].Title != "GitHub" {
		t.Errorf("expected GitHub inside Development, got %+v", inside)
	}
}
