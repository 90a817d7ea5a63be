package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/search"
	"github.com/bmexp/bmexp/internal/store"
	"github.com/bmexp/bmexp/internal/tui/layout"
)

// Entry is one pickable search result together with the folder path it
// lives under, so the list reads like the explorer's breadcrumb.
type Entry struct {
	Node       model.Node
	Matched    []int // byte indexes into the title, from the fuzzy match
	FolderPath string
}

// BuildEntries resolves the folder path of every search result. Path
// resolution is best-effort: an ancestor that no longer loads truncates
// that entry's path rather than failing the whole pick.
func BuildEntries(ctx context.Context, s store.Store, results []search.Result) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Node:       r.Node,
			Matched:    r.MatchedIndexes,
			FolderPath: folderPath(ctx, s, r.Node.ParentID),
		}
	}
	return entries
}

func folderPath(ctx context.Context, s store.Store, folderID string) string {
	var parts []string
	id := folderID
	for id != "" && id != model.RootID {
		node, err := s.Get(ctx, id)
		if err != nil {
			break
		}
		parts = append([]string{node.Title}, parts...)
		id = node.ParentID
	}
	return strings.Join(parts, " / ")
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Styles holds the picker's lipgloss styles, matching the explorer's
// grayscale-plus-teal palette.
type Styles struct {
	Header   lipgloss.Style
	Cursor   lipgloss.Style
	Title    lipgloss.Style
	Match    lipgloss.Style
	Path     lipgloss.Style
	Footer   lipgloss.Style
	NoResult lipgloss.Style
}

func defaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Cursor:   lipgloss.NewStyle().Foreground(accent),
		Title:    lipgloss.NewStyle().Foreground(primary),
		Match:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Path:     lipgloss.NewStyle().Foreground(subtle),
		Footer:   lipgloss.NewStyle().Foreground(subtle),
		NoResult: lipgloss.NewStyle().Foreground(subtle),
	}
}

// Picker is a minimal list model for choosing one bookmark out of a
// quick-search result set.
type Picker struct {
	entries   []Entry
	query     string
	cursor    int
	selected  bool
	cancelled bool

	keys   keyMap
	styles Styles
	cfg    layout.LayoutConfig
	width  int
	height int
}

// New creates a Picker over the given entries.
func New(entries []Entry, query string) Picker {
	return Picker{
		entries: entries,
		query:   query,
		keys:    defaultKeyMap(),
		styles:  defaultStyles(),
		cfg:     layout.DefaultConfig(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Select):
			p.selected = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.entries)-1 {
				p.cursor++
			}

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		}
	}

	return p, nil
}

// View implements tea.Model. Each entry renders as the matched title with
// its folder path alongside, the way the explorer's breadcrumb shows it.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Header.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.entries))))
	b.WriteString("\n\n")

	if len(p.entries) == 0 {
		b.WriteString(p.styles.NoResult.Render("(no matches)"))
		b.WriteString("\n")
	}

	// Header, blank line, footer and its blank line stay fixed; the rest
	// windows around the cursor.
	maxVisible := p.height - 4
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := layout.CalculateVisibleListItems(maxVisible, p.cursor, len(p.entries))
	for i := start; i < end; i++ {
		b.WriteString(p.renderEntry(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Footer.Render("j/k: move  Enter: open  q/Esc: cancel"))

	return b.String()
}

// renderEntry renders one row: cursor marker, title with the fuzzy-matched
// runes accented, then the folder path.
func (p Picker) renderEntry(i int) string {
	e := p.entries[i]

	marker := "  "
	if i == p.cursor {
		marker = p.styles.Cursor.Render("> ")
	}

	title := p.highlightTitle(e.Node.Title, e.Matched)

	path := e.FolderPath
	if path != "" {
		pathWidth := p.width - layout.VisibleLength(e.Node.Title) - 8
		path, _ = layout.TruncateText(path, pathWidth, p.cfg.Text)
		path = p.styles.Path.Render("  " + path)
	}

	return marker + title + path
}

// highlightTitle accents the title runes the fuzzy query matched.
func (p Picker) highlightTitle(title string, matched []int) string {
	if len(matched) == 0 {
		return p.styles.Title.Render(title)
	}

	hits := make(map[int]bool, len(matched))
	for _, idx := range matched {
		hits[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if hits[i] {
			b.WriteString(p.styles.Match.Render(string(r)))
		} else {
			b.WriteString(p.styles.Title.Render(string(r)))
		}
	}
	return b.String()
}

// SelectedNode returns the chosen bookmark, or nil if the pick was
// cancelled.
func (p Picker) SelectedNode() *model.Node {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.entries) {
		return &p.entries[p.cursor].Node
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
