package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
	Drag  DragConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + breadcrumb (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// SinglePaneWidthOffset is subtracted from the terminal width in
	// single-pane layout, accounting for borders and app padding.
	SinglePaneWidthOffset int

	// DualPaneWidthOffset is subtracted before dividing by 2.
	// Accounts for borders and spacing between the two panes.
	DualPaneWidthOffset int

	// MinPaneWidth is the minimum width for each pane.
	MinPaneWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int

	// HeaderLines is the number of lines a pane spends on its header.
	HeaderLines int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// SearchMaxVisible: max results shown in the search overlay.
	SearchMaxVisible int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	// Character limits
	TitleCharLimit  int
	URLCharLimit    int
	SearchCharLimit int

	// Display widths
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DragConfig maps terminal cells to the virtual pointer space used for
// drop-target resolution. A terminal row is only one cell tall, far too
// coarse for edge-versus-middle classification, so every row is given a
// virtual height and the pointer is placed inside it.
type DragConfig struct {
	// RowHeight is the virtual height of one rendered row.
	RowHeight int

	// CellWidth is the virtual width of one terminal column.
	CellWidth int

	// EdgeBias is the distance from a row edge the pointer is biased to
	// when an edge modifier (shift/alt) is held.
	EdgeBias int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:       7, // app padding (1) + breadcrumb (1) + pane borders (2) + help bar (3)
			MinHeight:             5,
			SinglePaneWidthOffset: 6,
			DualPaneWidthOffset:   8,
			MinPaneWidth:          20,
			ContentPadding:        4,
			HeaderLines:           2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 40,
			MinWidth:            50,
			MaxWidth:            80,
			SearchMaxVisible:    10,
		},
		Input: InputConfig{
			TitleCharLimit:  100,
			URLCharLimit:    500,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Drag: DragConfig{
			RowHeight: 100,
			CellWidth: 10,
			EdgeBias:  10,
		},
	}
}
