package exporter

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportStore renders the whole tree from the store to Netscape bookmark
// HTML.
func ExportStore(ctx context.Context, s store.Store) (string, error) {
	tree, err := s.GetTree(ctx)
	if err != nil {
		return "", err
	}
	forest := make([]model.Subtree, len(tree))
	for i, n := range tree {
		forest[i] = model.CaptureSubtree(n)
	}
	return ExportHTML(forest), nil
}

// ExportHTML exports a forest to Netscape bookmark HTML format. Sibling
// order is preserved as-is.
func ExportHTML(forest []model.Subtree) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeItems(&b, forest, 1)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes a sibling list in order.
func writeItems(b *strings.Builder, items []model.Subtree, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, item := range items {
		if item.URL == "" {
			fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(item.Title))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeItems(b, item.Children, indent+1)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
			continue
		}

		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(item.URL),
			html.EscapeString(item.Title),
		)
	}
}
