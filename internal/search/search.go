package search

import (
	"context"

	"github.com/sahilm/fuzzy"

	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/store"
)

// Result represents a fuzzy search match.
type Result struct {
	Node           model.Node
	MatchedIndexes []int
	Score          int
}

// nodeTitles implements fuzzy.Source for a node slice.
type nodeTitles []model.Node

func (nt nodeTitles) String(i int) string {
	return nt[i].Title
}

func (nt nodeTitles) Len() int {
	return len(nt)
}

// FuzzySearch matches the query against node titles. Returns results
// sorted by match score (best first).
func FuzzySearch(nodes []model.Node, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, nodeTitles(nodes))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Node:           nodes[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// FuzzySearchBookmarks fetches the full tree and fuzzy-matches the query
// against every bookmark title.
func FuzzySearchBookmarks(ctx context.Context, s store.Store, query string) ([]Result, error) {
	tree, err := s.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return FuzzySearch(CollectBookmarks(tree), query), nil
}

// CollectBookmarks flattens a forest into its bookmark leaves, in tree
// order.
func CollectBookmarks(forest []model.Node) []model.Node {
	var out []model.Node
	for _, n := range forest {
		if n.IsFolder() {
			out = append(out, CollectBookmarks(n.Children)...)
		} else {
			out = append(out, n)
		}
	}
	return out
}
