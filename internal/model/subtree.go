package model

// Subtree is a detached snapshot of a node and all of its descendants,
// captured before a deletion so the undo log can recreate the structure.
// A subtree is a bookmark when URL is set and a folder otherwise. ID is the
// id the node had at capture time; recreation assigns fresh ids and uses
// the captured ones only to rewrite stale references elsewhere.
type Subtree struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url,omitempty"`
	Children []Subtree `json:"children,omitempty"`
}

// IsFolder returns true if this snapshot describes a folder.
func (t Subtree) IsFolder() bool {
	return t.URL == ""
}

// CaptureSubtree converts a Node (as returned by GetSubTree) into a
// detached Subtree snapshot, recursively.
func CaptureSubtree(n Node) Subtree {
	t := Subtree{
		ID:    n.ID,
		Title: n.Title,
		URL:   n.URL,
	}
	for _, c := range n.Children {
		t.Children = append(t.Children, CaptureSubtree(c))
	}
	return t
}

// CountNodes returns the total number of nodes in the subtree, including
// the root.
func (t Subtree) CountNodes() int {
	n := 1
	for _, c := range t.Children {
		n += c.CountNodes()
	}
	return n
}
