package tui

import (
	"sync"

	"github.com/bmexp/bmexp/internal/dragdrop"
	"github.com/bmexp/bmexp/internal/tui/layout"
)

// rowRegion ties one rendered row to its pane, list index, and the
// terminal cells it occupies. Rows with drop unset still take clicks but
// never resolve as drop targets; a title-sorted listing registers its
// bookmark rows that way, since their display position is derived and a
// before/after drop against it would land elsewhere.
type rowRegion struct {
	candidate dragdrop.Candidate
	paneIdx   int
	itemIdx   int
	line      int
	colStart  int
	colEnd    int // exclusive
	drop      bool
}

// edgeBias nudges the virtual pointer toward a row edge. A terminal row is
// one cell tall, so without a bias every hover lands mid-row; holding a
// modifier biases the pointer to the top or bottom band instead, which is
// what makes before/after reordering reachable.
type edgeBias int

const (
	biasNone edgeBias = iota
	biasTop
	biasBottom
)

// hitMap is the bridge between terminal cells and the virtual pointer
// space the drop resolver works in. Every visible row is registered with a
// virtual rect; cell coordinates from mouse events are scaled up into that
// space.
type hitMap struct {
	mu   sync.Mutex
	cfg  layout.DragConfig
	rows []rowRegion
}

func newHitMap(cfg layout.DragConfig) *hitMap {
	return &hitMap{cfg: cfg}
}

// SetRows replaces the registered rows after a render layout change.
func (h *hitMap) SetRows(rows []rowRegion) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rows = rows
}

// CandidateAt implements dragdrop.HitTester in virtual coordinates.
func (h *hitMap) CandidateAt(x, y int) *dragdrop.Candidate {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.rows {
		if h.rows[i].drop && h.rows[i].candidate.Bounds.Contains(x, y) {
			c := h.rows[i].candidate
			return &c
		}
	}
	return nil
}

// RowAtCell returns the row rendered at the given terminal cell.
func (h *hitMap) RowAtCell(col, line int) (rowRegion, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.rows {
		if r.line == line && col >= r.colStart && col < r.colEnd {
			return r, true
		}
	}
	return rowRegion{}, false
}

// PointerX converts a terminal column to a virtual x at the cell center.
func (h *hitMap) PointerX(col int) int {
	return col*h.cfg.CellWidth + h.cfg.CellWidth/2
}

// PointerY converts a terminal line to a virtual y. The bias places the
// pointer mid-row, in the top band, or in the bottom band.
func (h *hitMap) PointerY(line int, bias edgeBias) int {
	base := line * h.cfg.RowHeight
	switch bias {
	case biasTop:
		return base + h.cfg.EdgeBias
	case biasBottom:
		return base + h.cfg.RowHeight - h.cfg.EdgeBias
	}
	return base + h.cfg.RowHeight/2
}

// bounds builds the virtual rect for a row spanning [colStart, colEnd) on
// the given line.
func (h *hitMap) bounds(colStart, colEnd, line int) dragdrop.Rect {
	return dragdrop.Rect{
		X:      colStart * h.cfg.CellWidth,
		Y:      line * h.cfg.RowHeight,
		Width:  (colEnd - colStart) * h.cfg.CellWidth,
		Height: h.cfg.RowHeight,
	}
}
