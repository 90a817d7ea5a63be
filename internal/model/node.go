package model

// Reserved node IDs. These nodes are created by the store on first open and
// can never be removed, renamed, or moved.
const (
	RootID    = "root"
	ToolbarID = "toolbar"
	OtherID   = "other"
	MobileID  = "mobile"
)

// Node represents a single entry in the bookmark tree: a bookmark (leaf,
// has a URL) or a folder (container, may have children). Index is the
// zero-based position among siblings; the store keeps sibling indices dense.
type Node struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"` // empty for the root
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"` // empty = folder
	Index    int    `json:"index"`
	Children []Node `json:"children,omitempty"` // folders only, index order
}

// IsFolder returns true if this node is a folder (no URL).
func (n Node) IsFolder() bool {
	return n.URL == ""
}

// IsReserved returns true for the root and the default top-level folders.
func (n Node) IsReserved() bool {
	return IsReservedID(n.ID)
}

// IsReservedID reports whether id names the root or a default top-level
// folder.
func IsReservedID(id string) bool {
	switch id {
	case RootID, ToolbarID, OtherID, MobileID:
		return true
	}
	return false
}

// NewNodeParams holds parameters for creating a new Node.
type NewNodeParams struct {
	ParentID string
	Title    string
	URL      string // empty = folder
	Index    int
}

// NewNode creates a Node with a generated UUID.
func NewNode(params NewNodeParams) Node {
	return Node{
		ID:       GenerateUUID(),
		ParentID: params.ParentID,
		Title:    params.Title,
		URL:      params.URL,
		Index:    params.Index,
	}
}
