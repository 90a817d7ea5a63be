package tui_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

func TestView_RendersItems(t *testing.T) {
	s := newTestStore(t)
	seedBookmarks(t, s, "GitHub", "Go Blog")
	app := newTestApp(t, s)

	view := app.View()
	if !strings.Contains(view, "GitHub") {
		t.Errorf("view missing bookmark title GitHub")
	}
	if !strings.Contains(view, "Go Blog") {
		t.Errorf("view missing bookmark title Go Blog")
	}
	if !strings.Contains(view, "bmexp") {
		t.Errorf("view missing breadcrumb prefix")
	}
}

func TestView_EmptyFolder(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	if !strings.Contains(app.View(), "(empty)") {
		t.Errorf("empty folder view missing placeholder")
	}
}

func TestView_FolderPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "Dev"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	seedBookmarks(t, s, "GitHub")
	app := newTestApp(t, s)

	view := app.View()
	if !strings.Contains(view, "▸ Dev") {
		t.Errorf("folder row missing folder prefix")
	}
	if strings.Contains(view, "▸ GitHub") {
		t.Errorf("bookmark row carries folder prefix")
	}
}

func TestView_BreadcrumbFollowsNavigation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "Projects"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	app := newTestApp(t, s)

	app = pressType(t, app, tea.KeyEnter)
	if !strings.Contains(app.View(), "Projects") {
		t.Errorf("breadcrumb missing opened folder title")
	}
}

func TestView_NormalModeHints(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	view := app.View()
	for _, want := range []string{"j/k", "search", "undo", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing hint %q", want)
		}
	}
}

func TestView_DualPane(t *testing.T) {
	s := newTestStore(t)
	seedBookmarks(t, s, "a")
	app := newTestApp(t, s)

	app = pressKey(t, app, '2')
	view := app.View()
	// Breadcrumb plus two pane headers.
	if strings.Count(view, "Bookmarks Bar") < 3 {
		t.Errorf("dual-pane view does not show both pane headers")
	}
	if !strings.Contains(view, "tab") {
		t.Errorf("dual-pane view missing pane-switch hint")
	}
}

func TestView_AddBookmarkModal(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	app = pressKey(t, app, 'a')
	view := app.View()
	if !strings.Contains(view, "Add Bookmark") {
		t.Errorf("modal missing title")
	}
	if !strings.Contains(view, "save") || !strings.Contains(view, "cancel") {
		t.Errorf("modal missing inline hints")
	}
}

func TestView_ConfirmDeleteModal(t *testing.T) {
	s := newTestStore(t)
	seedBookmarks(t, s, "drop")
	app := newTestApp(t, s)

	app = pressKey(t, app, 'd')
	view := app.View()
	if !strings.Contains(view, "Confirm Delete") {
		t.Errorf("confirmation missing title")
	}
	if !strings.Contains(view, "drop") {
		t.Errorf("confirmation missing item title")
	}
}

func TestView_ConfirmDeleteWarnsAboutFolders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Create(ctx, store.CreateParams{ParentID: model.ToolbarID, Title: "Dev"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	app := newTestApp(t, s)

	app = pressKey(t, app, 'd')
	if !strings.Contains(app.View(), "contents") {
		t.Errorf("folder deletion confirmation missing contents warning")
	}
}

func TestView_SearchOverlay(t *testing.T) {
	s := newTestStore(t)
	seedBookmarks(t, s, "GitHub")
	app := newTestApp(t, s)

	app = pressKey(t, app, 's')
	if !strings.Contains(app.View(), "Search") {
		t.Fatalf("search overlay missing title")
	}

	app = pressKey(t, app, 'x', 'q')
	if !strings.Contains(app.View(), "(no matches)") {
		t.Errorf("search overlay missing empty-results placeholder")
	}
}

func TestView_HelpOverlay(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(t, s)

	app = pressKey(t, app, '?')
	view := app.View()
	if !strings.Contains(view, "Help") {
		t.Errorf("help overlay missing title")
	}
	if !strings.Contains(view, "toggle dual pane") {
		t.Errorf("help overlay missing dual-pane entry")
	}
	if !strings.Contains(view, "drag") {
		t.Errorf("help overlay missing drag entry")
	}
}
