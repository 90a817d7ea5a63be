package tui

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/bmexp/bmexp/internal/dragdrop"
	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/pane"
	"github.com/bmexp/bmexp/internal/prefs"
	"github.com/bmexp/bmexp/internal/search"
	"github.com/bmexp/bmexp/internal/store"
	"github.com/bmexp/bmexp/internal/tui/layout"
	"github.com/bmexp/bmexp/internal/undo"
)

// maxPanes is the number of explorer panes; the second one is optional.
const maxPanes = 2

// App is the main bubbletea model for the bookmark explorer: one or two
// folder panes over a shared store, with drag-and-drop and an undo log.
type App struct {
	store  store.Store
	log    *undo.Log
	prefs  *prefs.Store
	logger zerolog.Logger

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	panes   [maxPanes]*pane.Pane
	items   [maxPanes][]Item
	cursors [maxPanes]int
	focused int
	dual    bool

	drag    *dragdrop.Controller
	hits    *hitMap
	refresh *refreshSignal
	press   dragPress

	mode        Mode
	modal       ModalState
	searchState SearchState
	notice      string
	noticeIsErr bool

	// Last yanked item, as a detached snapshot; pasting recreates it.
	yanked *model.Subtree

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Store  store.Store
	Log    *undo.Log
	Prefs  *prefs.Store
	Logger zerolog.Logger
	Keys   *KeyMap // optional, uses default if nil
	Styles *Styles // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	hits := newHitMap(cfg.Drag)
	refresh := &refreshSignal{}

	app := App{
		store:        params.Store,
		log:          params.Log,
		prefs:        params.Prefs,
		logger:       params.Logger,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		drag:         dragdrop.NewController(params.Store, params.Log, hits, refresh, params.Logger),
		hits:         hits,
		refresh:      refresh,
		modal:        NewModalState(cfg),
		searchState:  NewSearchState(cfg),
		width:        80,
		height:       24,
	}

	for i := range app.panes {
		app.panes[i] = pane.New(model.ToolbarID)
	}
	if params.Prefs != nil {
		app.dual = params.Prefs.GetBool(prefs.KeyDualPane, false)
	}

	app.reload()
	return app
}

// Focused returns the index of the focused pane.
func (a App) Focused() int {
	return a.focused
}

// Items returns the item list of the given pane.
func (a App) Items(paneIdx int) []Item {
	return a.items[paneIdx]
}

// Cursor returns the cursor position of the given pane.
func (a App) Cursor(paneIdx int) int {
	return a.cursors[paneIdx]
}

// Pane returns the navigation state of the given pane.
func (a App) Pane(paneIdx int) *pane.Pane {
	return a.panes[paneIdx]
}

// paneCount returns the number of visible panes.
func (a App) paneCount() int {
	if a.dual {
		return maxPanes
	}
	return 1
}

// reload re-reads the child lists of every visible pane from the store,
// re-applies the sort mode, clamps cursors, and rebuilds the hit rows.
func (a *App) reload() {
	ctx := context.Background()
	for i := 0; i < a.paneCount(); i++ {
		children, err := a.store.GetChildren(ctx, a.panes[i].CurrentFolderID())
		if err != nil {
			a.logger.Warn().Err(err).Str("folder", a.panes[i].CurrentFolderID()).Msg("pane reload failed")
			a.items[i] = nil
			continue
		}
		items := make([]Item, len(children))
		for j, c := range children {
			items[j] = Item{Node: c}
		}
		if a.sortMode() == "title" {
			sort.SliceStable(items, func(x, y int) bool {
				return strings.ToLower(items[x].Title()) < strings.ToLower(items[y].Title())
			})
		}
		a.items[i] = items
		if a.cursors[i] >= len(items) {
			a.cursors[i] = len(items) - 1
		}
		if a.cursors[i] < 0 {
			a.cursors[i] = 0
		}
	}
	a.rebuildRows()
}

func (a App) sortMode() string {
	if a.prefs == nil {
		return "manual"
	}
	if v, ok := a.prefs.Get(prefs.KeySortMode); ok {
		return v
	}
	return "manual"
}

// rebuildRows registers every visible row with the hit map, mirroring the
// geometry the view renders: app padding, breadcrumb, pane border, header.
func (a *App) rebuildRows() {
	lay := layout.CalculatePaneWidth(a.width, a.dual, a.layoutConfig.Pane)
	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	visible := layout.CalculateVisibleHeight(paneHeight, a.layoutConfig.Pane.HeaderLines)

	titleSorted := a.sortMode() == "title"

	var rows []rowRegion
	for p := 0; p < lay.Count; p++ {
		paneCol := appPadLeft + p*(lay.Width+2)
		itemsTop := paneTopLine + 1 + a.layoutConfig.Pane.HeaderLines
		colStart := paneCol + 2
		colEnd := paneCol + lay.Width

		offset := layout.CalculateViewportOffset(a.cursors[p], len(a.items[p]), visible)
		for i := offset; i < len(a.items[p]) && i < offset+visible; i++ {
			item := a.items[p][i]
			line := itemsTop + (i - offset)
			rows = append(rows, rowRegion{
				candidate: dragdrop.Candidate{
					ID:     item.ID(),
					Kind:   item.DropKind(),
					Bounds: a.hits.bounds(colStart, colEnd, line),
				},
				paneIdx:  p,
				itemIdx:  i,
				line:     line,
				colStart: colStart,
				colEnd:   colEnd,
				drop:     !titleSorted || item.IsFolder(),
			})
		}
	}
	a.hits.SetRows(rows)
}

// paneAtCell returns the pane index under the given terminal column.
func (a App) paneAtCell(col int) int {
	lay := layout.CalculatePaneWidth(a.width, a.dual, a.layoutConfig.Pane)
	for p := 0; p < lay.Count; p++ {
		paneCol := appPadLeft + p*(lay.Width+2)
		if col >= paneCol && col < paneCol+lay.Width+2 {
			return p
		}
	}
	return a.focused
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.rebuildRows()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		switch a.mode {
		case ModeNormal:
			return a.handleNormalKey(msg)
		case ModeAddBookmark, ModeAddFolder, ModeRename:
			return a.handleModalKey(msg)
		case ModeConfirmDelete:
			return a.handleConfirmDeleteKey(msg)
		case ModeSearch:
			return a.handleSearchKey(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		}
	}

	return a, nil
}

// handleMouse drives the drag controller: press arms a potential drag,
// motion starts and tracks it, release drops.
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.mode != ModeNormal {
		return a, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		if row, ok := a.hits.RowAtCell(msg.X, msg.Y); ok {
			a.press = dragPress{itemID: row.candidate.ID, paneIdx: row.paneIdx}
			a.focused = row.paneIdx
			a.cursors[row.paneIdx] = row.itemIdx
			a.rebuildRows()
		}

	case tea.MouseActionMotion:
		if a.press.itemID == "" {
			return a, nil
		}
		if !a.press.started {
			a.drag.Start(a.press.itemID, a.panes[a.press.paneIdx].CurrentFolderID())
			a.press.started = true
		}
		a.drag.Over(a.hits.PointerX(msg.X), a.hits.PointerY(msg.Y, a.mouseBias(msg)))

	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return a, nil
		}
		if a.press.started {
			ctx := context.Background()
			paneFolder := a.panes[a.paneAtCell(msg.X)].CurrentFolderID()
			err := a.drag.Drop(ctx, a.hits.PointerX(msg.X), a.hits.PointerY(msg.Y, a.mouseBias(msg)), paneFolder)
			a.drag.End()
			switch {
			case err == nil:
				a.setNotice("moved")
			case errors.Is(err, dragdrop.ErrNoDropTarget):
				// Imprecise gesture; nothing to report.
			default:
				a.setError(err.Error())
			}
			a.consumeRefresh()
		}
		a.press = dragPress{}
	}

	return a, nil
}

// mouseBias maps held modifiers to a pointer edge bias: shift targets the
// top band of a row, alt the bottom band. Under title sort the listing
// order is derived, so edge drops are meaningless and the bias stays
// centered.
func (a App) mouseBias(msg tea.MouseMsg) edgeBias {
	if a.sortMode() == "title" {
		return biasNone
	}
	switch {
	case msg.Shift:
		return biasTop
	case msg.Alt:
		return biasBottom
	}
	return biasNone
}

func (a *App) consumeRefresh() {
	if a.refresh.consume() {
		a.reload()
	}
}

func (a *App) setNotice(text string) {
	a.notice = text
	a.noticeIsErr = false
}

func (a *App) setError(text string) {
	a.notice = text
	a.noticeIsErr = true
}

// handleNormalKey handles keys in the main browse mode.
func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	a.notice = ""

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursors[a.focused] = 0
			a.lastKeyWasG = false
			a.rebuildRows()
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.items[a.focused]) > 0 && a.cursors[a.focused] < len(a.items[a.focused])-1 {
			a.cursors[a.focused]++
			a.rebuildRows()
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursors[a.focused] > 0 {
			a.cursors[a.focused]--
			a.rebuildRows()
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items[a.focused]) > 0 {
			a.cursors[a.focused] = len(a.items[a.focused]) - 1
			a.rebuildRows()
		}

	case key.Matches(msg, a.keys.Open):
		if item, ok := a.currentItem(); ok {
			if item.IsFolder() {
				a.panes[a.focused].Navigate(item.ID(), true)
				a.cursors[a.focused] = 0
				a.reload()
			} else {
				a.yankItem(ctx, item)
			}
		}

	case key.Matches(msg, a.keys.Back):
		if _, ok := a.panes[a.focused].Back(); ok {
			a.cursors[a.focused] = 0
			a.reload()
		}

	case key.Matches(msg, a.keys.Forward):
		if _, ok := a.panes[a.focused].Forward(); ok {
			a.cursors[a.focused] = 0
			a.reload()
		}

	case key.Matches(msg, a.keys.Parent):
		if _, ok, err := a.panes[a.focused].Up(ctx, a.store); err != nil {
			a.setError(err.Error())
		} else if ok {
			a.cursors[a.focused] = 0
			a.reload()
		}

	case key.Matches(msg, a.keys.SwitchPane):
		if a.dual {
			a.focused = (a.focused + 1) % maxPanes
		}

	case key.Matches(msg, a.keys.ToggleDual):
		a.dual = !a.dual
		if !a.dual {
			a.focused = 0
		}
		if a.prefs != nil {
			if err := a.prefs.SetBool(prefs.KeyDualPane, a.dual); err != nil {
				a.logger.Warn().Err(err).Msg("persisting dual pane preference failed")
			}
		}
		a.reload()

	case key.Matches(msg, a.keys.Select):
		if item, ok := a.currentItem(); ok {
			a.panes[a.focused].Toggle(item.ID())
		}

	case key.Matches(msg, a.keys.AddBookmark):
		a.modal.Reset()
		a.modal.TitleInput.Focus()
		a.mode = ModeAddBookmark

	case key.Matches(msg, a.keys.AddFolder):
		a.modal.Reset()
		a.modal.TitleInput.Focus()
		a.mode = ModeAddFolder

	case key.Matches(msg, a.keys.Rename):
		if item, ok := a.currentItem(); ok {
			if item.Node.IsReserved() {
				a.setError("cannot rename a default folder")
				return a, nil
			}
			a.modal.Reset()
			a.modal.EditItemID = item.ID()
			a.modal.TitleInput.SetValue(item.Title())
			a.modal.TitleInput.Focus()
			a.mode = ModeRename
		}

	case key.Matches(msg, a.keys.Delete):
		items := a.deletionTargets()
		if len(items) == 0 {
			return a, nil
		}
		for _, it := range items {
			if it.Node.IsReserved() {
				a.setError("cannot delete a default folder")
				return a, nil
			}
		}
		a.modal.DeleteItems = items
		if a.prefs != nil && !a.prefs.GetBool(prefs.KeyConfirmDelete, true) {
			return a.performDelete(ctx)
		}
		a.mode = ModeConfirmDelete

	case key.Matches(msg, a.keys.Undo):
		desc, err := a.log.Undo(ctx)
		switch {
		case errors.Is(err, undo.ErrNothingToUndo):
			a.setNotice("nothing to undo")
		case err != nil:
			a.setError(err.Error())
		default:
			a.setNotice(desc)
			a.reload()
		}

	case key.Matches(msg, a.keys.Yank):
		if item, ok := a.currentItem(); ok {
			a.yankItem(ctx, item)
		}

	case key.Matches(msg, a.keys.Put):
		if a.yanked == nil {
			a.setNotice("nothing to paste")
			return a, nil
		}
		a.pasteYanked(ctx)

	case key.Matches(msg, a.keys.Search):
		a.searchState.Reset()
		a.searchState.Input.Focus()
		a.mode = ModeSearch

	case key.Matches(msg, a.keys.Sort):
		next := "title"
		if a.sortMode() == "title" {
			next = "manual"
		}
		if a.prefs != nil {
			if err := a.prefs.Set(prefs.KeySortMode, next); err != nil {
				a.setError(err.Error())
				return a, nil
			}
		}
		a.setNotice("sort: " + next)
		a.reload()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// currentItem returns the item under the cursor of the focused pane.
func (a App) currentItem() (Item, bool) {
	items := a.items[a.focused]
	cursor := a.cursors[a.focused]
	if len(items) == 0 || cursor >= len(items) {
		return Item{}, false
	}
	return items[cursor], true
}

// deletionTargets returns the marked items of the focused pane, or the
// item under the cursor when nothing is marked.
func (a App) deletionTargets() []Item {
	p := a.panes[a.focused]
	if p.SelectionCount() > 0 {
		var items []Item
		for _, it := range a.items[a.focused] {
			if p.IsSelected(it.ID()) {
				items = append(items, it)
			}
		}
		return items
	}
	if item, ok := a.currentItem(); ok {
		return []Item{item}
	}
	return nil
}

// yankItem snapshots the item's subtree into the paste buffer; for
// bookmarks the URL also goes to the system clipboard.
func (a *App) yankItem(ctx context.Context, item Item) {
	node, err := a.store.GetSubTree(ctx, item.ID())
	if err != nil {
		a.setError(err.Error())
		return
	}
	captured := model.CaptureSubtree(*node)
	a.yanked = &captured

	if item.IsFolder() {
		a.setNotice("yanked " + item.Title())
		return
	}
	if err := clipboard.WriteAll(item.Node.URL); err != nil {
		// Still pasteable inside the app.
		a.setNotice("yanked " + item.Title() + " (clipboard unavailable)")
		return
	}
	a.setNotice("yanked " + item.Node.URL)
}

// pasteYanked recreates the yanked snapshot in the focused pane's folder,
// after the cursor. Under title sort the display position is derived, so
// the paste appends instead.
func (a *App) pasteYanked(ctx context.Context) {
	index := store.IntPtr(a.cursors[a.focused] + 1)
	if len(a.items[a.focused]) == 0 || a.sortMode() == "title" {
		index = nil
	}

	created, err := a.createSubtree(ctx, *a.yanked, a.panes[a.focused].CurrentFolderID(), index)
	if err != nil {
		a.setError(err.Error())
		return
	}
	a.log.Push(undo.Paste{CreatedID: created.ID, Title: created.Title})
	a.setNotice("pasted " + created.Title)
	a.reload()
}

// createSubtree recreates a snapshot pre-order under the given parent;
// children append in captured order.
func (a *App) createSubtree(ctx context.Context, t model.Subtree, parentID string, index *int) (*model.Node, error) {
	created, err := a.store.Create(ctx, store.CreateParams{
		ParentID: parentID,
		Title:    t.Title,
		URL:      t.URL,
		Index:    index,
	})
	if err != nil {
		return nil, err
	}
	for _, child := range t.Children {
		if _, err := a.createSubtree(ctx, child, created.ID, nil); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// handleModalKey handles keys in the add/rename modals.
func (a App) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil

	case tea.KeyTab:
		if a.mode == ModeAddBookmark {
			a.modal.Focus = (a.modal.Focus + 1) % 2
			if a.modal.Focus == 0 {
				a.modal.TitleInput.Focus()
				a.modal.URLInput.Blur()
			} else {
				a.modal.TitleInput.Blur()
				a.modal.URLInput.Focus()
			}
		}
		return a, nil

	case tea.KeyEnter:
		return a.submitModal()
	}

	var cmd tea.Cmd
	if a.modal.Focus == 0 {
		a.modal.TitleInput, cmd = a.modal.TitleInput.Update(msg)
	} else {
		a.modal.URLInput, cmd = a.modal.URLInput.Update(msg)
	}
	return a, cmd
}

// submitModal applies the pending add or rename and records its inverse.
func (a App) submitModal() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	title := strings.TrimSpace(a.modal.TitleInput.Value())
	url := strings.TrimSpace(a.modal.URLInput.Value())

	switch a.mode {
	case ModeAddBookmark:
		if title == "" || url == "" {
			a.setError("title and URL are required")
			return a, nil
		}
		created, err := a.store.Create(ctx, store.CreateParams{
			ParentID: a.panes[a.focused].CurrentFolderID(),
			Title:    title,
			URL:      url,
		})
		if err != nil {
			a.setError(err.Error())
			return a, nil
		}
		a.log.Push(undo.Create{CreatedID: created.ID, Title: created.Title})
		a.setNotice("added " + created.Title)

	case ModeAddFolder:
		if title == "" {
			a.setError("title is required")
			return a, nil
		}
		created, err := a.store.Create(ctx, store.CreateParams{
			ParentID: a.panes[a.focused].CurrentFolderID(),
			Title:    title,
		})
		if err != nil {
			a.setError(err.Error())
			return a, nil
		}
		a.log.Push(undo.Create{CreatedID: created.ID, Title: created.Title})
		a.setNotice("added " + created.Title)

	case ModeRename:
		if title == "" {
			a.setError("title is required")
			return a, nil
		}
		inverse, err := undo.CaptureRename(ctx, a.store, a.modal.EditItemID)
		if err != nil {
			a.setError(err.Error())
			return a, nil
		}
		if inverse.OriginalTitle == title {
			// Nothing changed, nothing to undo.
			a.mode = ModeNormal
			return a, nil
		}
		if err := a.store.Update(ctx, a.modal.EditItemID, store.UpdateParams{Title: title}); err != nil {
			a.setError(err.Error())
			return a, nil
		}
		a.log.Push(inverse)
		a.setNotice("renamed to " + title)
	}

	a.mode = ModeNormal
	a.reload()
	return a, nil
}

// handleConfirmDeleteKey handles the delete confirmation prompt.
func (a App) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return a.performDelete(context.Background())
	case "n", "esc", "q":
		a.modal.DeleteItems = nil
		a.mode = ModeNormal
	}
	return a, nil
}

// performDelete removes the pending items, capturing each subtree before
// the removal so the undo log can restore it.
func (a App) performDelete(ctx context.Context) (tea.Model, tea.Cmd) {
	failed := false
	for _, item := range a.modal.DeleteItems {
		inverse, err := undo.CaptureDelete(ctx, a.store, item.ID())
		if err != nil {
			a.setError(err.Error())
			failed = true
			break
		}
		if err := a.store.RemoveTree(ctx, item.ID()); err != nil {
			a.setError(err.Error())
			failed = true
			break
		}
		a.log.Push(inverse)
	}
	if !failed {
		a.setNotice("deleted")
	}
	a.panes[a.focused].ClearSelection()
	a.modal.DeleteItems = nil
	a.mode = ModeNormal
	a.reload()
	return a, nil
}

// handleSearchKey handles the global search overlay.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.Type {
	case tea.KeyEsc:
		a.searchState.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyDown:
		if a.searchState.Cursor < len(a.searchState.Results)-1 {
			a.searchState.Cursor++
		}
		return a, nil

	case tea.KeyUp:
		if a.searchState.Cursor > 0 {
			a.searchState.Cursor--
		}
		return a, nil

	case tea.KeyEnter:
		if a.searchState.Cursor < len(a.searchState.Results) {
			node := a.searchState.Results[a.searchState.Cursor].Node
			a.panes[a.focused].Navigate(node.ParentID, true)
			a.searchState.Reset()
			a.mode = ModeNormal
			a.reload()
			a.focusItem(node.ID)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.searchState.Input, cmd = a.searchState.Input.Update(msg)

	results, err := search.FuzzySearchBookmarks(ctx, a.store, a.searchState.Input.Value())
	if err != nil {
		a.setError(err.Error())
		return a, cmd
	}
	a.searchState.Results = results
	if a.searchState.Cursor >= len(results) {
		a.searchState.Cursor = 0
	}
	return a, cmd
}

// focusItem places the focused pane's cursor on the given id, if visible.
func (a *App) focusItem(id string) {
	for i, item := range a.items[a.focused] {
		if item.ID() == id {
			a.cursors[a.focused] = i
			a.rebuildRows()
			return
		}
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
