package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bmexp/bmexp/internal/dragdrop"
	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/tui/layout"
)

// Fixed screen geometry shared by the renderer and the hit map: the app
// padding line, then the breadcrumb, then the pane borders.
const (
	appPadLeft  = 2
	paneTopLine = 2
)

// renderView creates the complete explorer view.
func (a App) renderView() string {
	switch a.mode {
	case ModeAddBookmark, ModeAddFolder, ModeRename:
		return a.renderModal()
	case ModeConfirmDelete:
		return a.renderConfirmDelete()
	case ModeSearch:
		return a.renderSearch()
	case ModeHelp:
		return a.renderHelp()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	lay := layout.CalculatePaneWidth(a.width, a.dual, a.layoutConfig.Pane)

	panes := make([]string, lay.Count)
	for p := 0; p < lay.Count; p++ {
		panes[p] = a.renderPane(p, lay.Width, paneHeight)
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	breadcrumb := a.renderBreadcrumb()
	statusBar := a.renderStatusBar()

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, breadcrumb, columns, statusBar),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderBreadcrumb renders the focused pane's folder path.
func (a App) renderBreadcrumb() string {
	path := a.folderPath(a.panes[a.focused].CurrentFolderID())

	// Terminal width minus app padding: left=2, right=2
	availableWidth := a.width - 4
	path = layout.TruncatePathFromLeft(path, availableWidth, a.layoutConfig.Text)

	return a.styles.Breadcrumb.Render(path)
}

// folderPath walks ancestors up to the root and joins their titles.
func (a App) folderPath(folderID string) string {
	ctx := context.Background()
	var parts []string
	id := folderID
	for id != "" && id != model.RootID {
		node, err := a.store.Get(ctx, id)
		if err != nil {
			break
		}
		parts = append([]string{node.Title}, parts...)
		id = node.ParentID
	}
	return "bmexp / " + strings.Join(parts, " / ")
}

// renderPane renders one explorer pane with its header and item rows.
func (a App) renderPane(p, width, height int) string {
	var content strings.Builder

	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	visible := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)

	// Header: folder title plus history markers
	title := a.paneTitle(p)
	title, _ = layout.TruncateText(title, itemWidth, a.layoutConfig.Text)
	content.WriteString(a.styles.Title.Render(title) + "\n")
	content.WriteString(a.styles.Empty.Render(strings.Repeat("─", max(itemWidth, 1))) + "\n")

	items := a.items[p]
	if len(items) == 0 {
		content.WriteString(a.styles.Empty.Render("(empty)"))
	} else {
		offset := layout.CalculateViewportOffset(a.cursors[p], len(items), visible)
		for i := offset; i < len(items) && i < offset+visible; i++ {
			content.WriteString(a.renderItem(p, i, itemWidth) + "\n")
		}
	}

	style := a.styles.Pane
	if p == a.focused {
		style = a.styles.PaneActive
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// paneTitle returns the header line of a pane: folder title with
// back/forward availability markers.
func (a App) paneTitle(p int) string {
	ctx := context.Background()
	title := "?"
	if node, err := a.store.Get(ctx, a.panes[p].CurrentFolderID()); err == nil {
		title = node.Title
	}

	markers := ""
	if a.panes[p].CanBack() {
		markers += "‹"
	}
	if a.panes[p].CanForward() {
		markers += "›"
	}
	if markers != "" {
		return title + " " + markers
	}
	return title
}

// renderItem renders a single row, including any active drop indicator.
func (a App) renderItem(p, i, maxWidth int) string {
	item := a.items[p][i]

	prefix := "  "
	if item.IsFolder() {
		prefix = "▸ "
	}
	marker := " "
	if a.panes[p].IsSelected(item.ID()) {
		marker = "*"
	}

	text := marker + prefix + item.Title()
	text, _ = layout.TruncateText(text, maxWidth, a.layoutConfig.Text)

	session := a.drag.Session()
	if session.Active() {
		if target, pos := session.Hover(); target != nil && target.ID == item.ID() {
			switch pos {
			case dragdrop.PositionInto:
				return a.styles.DropTarget.Render(text)
			case dragdrop.PositionBefore:
				return a.styles.DropEdge.Render("▔") + a.styles.Item.Render(text)
			case dragdrop.PositionAfter:
				return a.styles.DropEdge.Render("▁") + a.styles.Item.Render(text)
			}
		}
		if session.DraggedID() == item.ID() {
			return a.styles.Empty.Render(text)
		}
	}

	if p == a.focused && i == a.cursors[p] {
		return a.styles.ItemSelected.Render(text)
	}
	if a.panes[p].IsSelected(item.ID()) {
		return a.styles.ItemMarked.Render(text)
	}
	return a.styles.Item.Render(text)
}

// renderStatusBar renders the notice line and the contextual key hints.
func (a App) renderStatusBar() string {
	var notice string
	if a.notice != "" {
		if a.noticeIsErr {
			notice = a.styles.Error.Render(a.notice)
		} else {
			notice = a.styles.Notice.Render(a.notice)
		}
	}

	hints := a.renderHints(a.getContextualHints())
	if notice == "" {
		return a.styles.Help.Render(hints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, notice, a.styles.Help.Render(hints))
}

// renderModal renders the add/rename dialogs.
func (a App) renderModal() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)

	var title string
	var body strings.Builder
	switch a.mode {
	case ModeAddBookmark:
		title = "Add Bookmark"
		body.WriteString(a.modal.TitleInput.View() + "\n")
		body.WriteString(a.modal.URLInput.View() + "\n")
	case ModeAddFolder:
		title = "Add Folder"
		body.WriteString(a.modal.TitleInput.View() + "\n")
	case ModeRename:
		title = "Rename"
		body.WriteString(a.modal.TitleInput.View() + "\n")
	}

	body.WriteString("\n")
	body.WriteString(a.renderHintsInline([]Hint{
		{Key: "Enter", Desc: "save"},
		{Key: "Esc", Desc: "cancel"},
	}))

	box := a.styles.PaneActive.Width(width).Render(
		a.styles.Title.Render(title) + "\n\n" + body.String(),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// renderConfirmDelete renders the delete confirmation prompt.
func (a App) renderConfirmDelete() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)

	var body strings.Builder
	if len(a.modal.DeleteItems) == 1 {
		body.WriteString(fmt.Sprintf("Delete %q?", a.modal.DeleteItems[0].Title()))
	} else {
		body.WriteString(fmt.Sprintf("Delete %d items?", len(a.modal.DeleteItems)))
	}
	for _, item := range a.modal.DeleteItems {
		if item.IsFolder() {
			body.WriteString("\n" + a.styles.Error.Render("folders are deleted with their contents"))
			break
		}
	}
	body.WriteString("\n\n")
	body.WriteString(a.renderHintsInline([]Hint{
		{Key: "y/Enter", Desc: "delete"},
		{Key: "n/Esc", Desc: "cancel"},
	}))

	box := a.styles.PaneActive.Width(width).Render(
		a.styles.Title.Render("Confirm Delete") + "\n\n" + body.String(),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// renderSearch renders the global search overlay.
func (a App) renderSearch() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)

	var body strings.Builder
	body.WriteString(a.searchState.Input.View() + "\n\n")

	results := a.searchState.Results
	if len(results) == 0 {
		body.WriteString(a.styles.Empty.Render("(no matches)"))
	} else {
		start, end := layout.CalculateVisibleListItems(
			a.layoutConfig.Modal.SearchMaxVisible, a.searchState.Cursor, len(results))
		for i := start; i < end; i++ {
			line := results[i].Node.Title
			line, _ = layout.TruncateText(line, width-6, a.layoutConfig.Text)
			if i == a.searchState.Cursor {
				body.WriteString(a.styles.ItemSelected.Render("> " + line))
			} else {
				body.WriteString(a.styles.Item.Render("  " + line))
			}
			body.WriteString("\n")
		}
	}

	body.WriteString("\n")
	body.WriteString(a.renderHintsInline([]Hint{
		{Key: "↑/↓", Desc: "move"},
		{Key: "Enter", Desc: "go to"},
		{Key: "Esc", Desc: "cancel"},
	}))

	box := a.styles.PaneActive.Width(width).Render(
		a.styles.Title.Render("Search") + "\n\n" + strings.TrimRight(body.String(), "\n"),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHelp renders the key binding overlay.
func (a App) renderHelp() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)

	rows := []struct{ key, desc string }{
		{"j/k", "move down/up"},
		{"gg/G", "jump to top/bottom"},
		{"l/Enter", "open folder / yank bookmark"},
		{"h", "history back"},
		{"L", "history forward"},
		{"-/Backspace", "parent folder"},
		{"Tab", "switch pane"},
		{"2", "toggle dual pane"},
		{"Space", "toggle select"},
		{"drag", "move item (shift: before, alt: after)"},
		{"a/A", "add bookmark/folder"},
		{"r", "rename"},
		{"d", "delete"},
		{"u", "undo"},
		{"y", "yank item (bookmarks also copy the URL)"},
		{"p", "paste yanked item"},
		{"s", "search"},
		{"o", "cycle sort"},
		{"q", "quit"},
	}

	var body strings.Builder
	for _, r := range rows {
		body.WriteString(fmt.Sprintf("%s %s\n",
			a.styles.HintKey.Render(fmt.Sprintf("%-12s", r.key)),
			a.styles.HintDesc.Render(r.desc)))
	}

	box := a.styles.PaneActive.Width(width).Render(
		a.styles.Title.Render("Help") + "\n\n" + strings.TrimRight(body.String(), "\n"),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
