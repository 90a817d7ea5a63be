package dragdrop

// HitTester maps pointer coordinates to the drop candidate rendered at that
// point, or nil when nothing is there. The UI layer that owns rendering
// provides the implementation.
type HitTester interface {
	CandidateAt(x, y int) *Candidate
}

// Probe spacing around the pointer. Fast mouse motion and sub-pixel gaps
// between rows mean the exact pointer position frequently misses a row, so
// resolution probes an expanding fixed pattern.
const (
	probeNear = 12
	probeFar  = 24
)

type offset struct{ dx, dy int }

// probeOffsets: center, near cross, near diagonals, far cross (13 points).
var probeOffsets = []offset{
	{0, 0},
	{0, -probeNear}, {0, probeNear}, {-probeNear, 0}, {probeNear, 0},
	{-probeNear, -probeNear}, {probeNear, -probeNear},
	{-probeNear, probeNear}, {probeNear, probeNear},
	{0, -probeFar}, {0, probeFar}, {-probeFar, 0}, {probeFar, 0},
}

// probeOffsetsWide adds the far diagonal ring (17 points).
var probeOffsetsWide = append(append([]offset{}, probeOffsets...),
	offset{-probeFar, -probeFar}, offset{probeFar, -probeFar},
	offset{-probeFar, probeFar}, offset{probeFar, probeFar},
)

// Resolve turns pointer coordinates into a drop candidate, skipping the
// excluded (dragged) id. It tries the exact point first, then the 13-point
// probe pattern; the first valid candidate wins.
func Resolve(h HitTester, x, y int, excludedID string) (*Candidate, bool) {
	return resolve(h, x, y, excludedID, probeOffsets)
}

// ResolveWide is Resolve with the far diagonal ring included (17 points).
// Used by drop handling, where giving up is costlier than during hover.
func ResolveWide(h HitTester, x, y int, excludedID string) (*Candidate, bool) {
	return resolve(h, x, y, excludedID, probeOffsetsWide)
}

func resolve(h HitTester, x, y int, excludedID string, offsets []offset) (*Candidate, bool) {
	for _, o := range offsets {
		if c := h.CandidateAt(x+o.dx, y+o.dy); c != nil && c.ID != excludedID {
			return c, true
		}
	}
	return nil, false
}

// Classify determines the drop position from the pointer's vertical offset
// within the target's bounding box. Folders get a generous middle "into"
// band since moving into a folder is the common case and a mis-hit lands
// the item in the wrong place entirely; bookmarks only support reordering,
// so they split at the midpoint.
func Classify(c Candidate, pointerY int) Position {
	if c.Bounds.Height <= 0 {
		if c.Kind == KindFolder {
			return PositionInto
		}
		return PositionAfter
	}

	ratio := float64(pointerY-c.Bounds.Y) / float64(c.Bounds.Height)

	if c.Kind == KindFolder {
		switch {
		case ratio < 0.25:
			return PositionBefore
		case ratio > 0.75:
			return PositionAfter
		default:
			return PositionInto
		}
	}

	if ratio < 0.5 {
		return PositionBefore
	}
	return PositionAfter
}
