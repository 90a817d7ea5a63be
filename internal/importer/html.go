package importer

import (
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into a forest of
// subtrees, preserving folder hierarchy and document order.
func ParseHTMLBookmarks(r io.Reader) ([]model.Subtree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var root []model.Subtree

	// Stack of folder child lists; the top receives new items. A folder
	// defined by an H3 waits until its DL opens before being pushed.
	stack := []*[]model.Subtree{&root}
	var pending *model.Subtree

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					top := stack[len(stack)-1]
					*top = append(*top, model.Subtree{Title: name})
					pending = &(*top)[len(*top)-1]
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}
				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}
				top := stack[len(stack)-1]
				*top = append(*top, model.Subtree{Title: title, URL: href})
				return // Don't recurse into A

			case "dl":
				// A DL opens the contents of the pending folder, if any.
				pushed := false
				if pending != nil {
					stack = append(stack, &pending.Children)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return // Children handled above
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return root, nil
}

// Import parses Netscape bookmark HTML from r and creates the resulting
// forest under destFolderID, appending after any existing children.
// Returns the number of nodes created.
func Import(ctx context.Context, s store.Store, destFolderID string, r io.Reader) (int, error) {
	forest, err := ParseHTMLBookmarks(r)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, st := range forest {
		n, err := createSubtree(ctx, s, destFolderID, st)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

func createSubtree(ctx context.Context, s store.Store, parentID string, st model.Subtree) (int, error) {
	node, err := s.Create(ctx, store.CreateParams{
		ParentID: parentID,
		Title:    st.Title,
		URL:      st.URL,
	})
	if err != nil {
		return 0, err
	}

	created := 1
	for _, child := range st.Children {
		n, err := createSubtree(ctx, s, node.ID, child)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
