package layout

// PaneLayout holds calculated pane dimensions.
type PaneLayout struct {
	Width int
	Count int // 1 or 2 panes
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidth computes width for each pane based on layout.
// dualPane: whether the second pane is shown.
func CalculatePaneWidth(terminalWidth int, dualPane bool, cfg PaneConfig) PaneLayout {
	paneCount := 1
	offset := cfg.SinglePaneWidthOffset
	if dualPane {
		paneCount = 2
		offset = cfg.DualPaneWidthOffset
	}

	width := (terminalWidth - offset) / paneCount
	if width < cfg.MinPaneWidth {
		width = cfg.MinPaneWidth
	}

	return PaneLayout{
		Width: width,
		Count: paneCount,
	}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// CalculateVisibleHeight computes the visible item count in a pane.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	height := paneHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
