package dragdrop

// Kind distinguishes bookmark rows from folder rows.
type Kind int

const (
	KindBookmark Kind = iota
	KindFolder
)

// Rect is an axis-aligned bounding box in pointer units.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies within the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Candidate is a typed drop candidate produced by the UI's hit-test layer.
// The resolver and session logic only ever see this value, never raw UI
// primitives.
type Candidate struct {
	ID     string
	Kind   Kind
	Bounds Rect
}

// Position is the relative placement of a dragged item with respect to a
// resolved target.
type Position int

const (
	PositionBefore Position = iota
	PositionInto
	PositionAfter
)

// String returns the position name.
func (p Position) String() string {
	switch p {
	case PositionBefore:
		return "before"
	case PositionInto:
		return "into"
	case PositionAfter:
		return "after"
	}
	return "unknown"
}
