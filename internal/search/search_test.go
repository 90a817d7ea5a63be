package search

import (
	"testing"

	"github.com/bmexp/bmexp/internal/model"
)

func bookmark(id, title, url string) model.Node {
	return model.Node{ID: id, Title: title, URL: url}
}

func TestFuzzySearch_EmptyQuery(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "GitHub", "https://github.com"),
	}

	results := FuzzySearch(nodes, "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzySearch_ExactMatch(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "GitHub", "https://github.com"),
		bookmark("b2", "GitLab", "https://gitlab.com"),
	}

	results := FuzzySearch(nodes, "GitHub")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Node.Title != "GitHub" {
		t.Errorf("expected GitHub, got %s", results[0].Node.Title)
	}
}

func TestFuzzySearch_FuzzyMatch(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "TanStack Router", "https://tanstack.com/router"),
		bookmark("b2", "React Router", "https://reactrouter.com"),
	}

	// "tanrou" should fuzzy match "TanStack Router"
	results := FuzzySearch(nodes, "tanrou")

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'tanrou', got %d", len(results))
	}
	// TanStack Router should be first (better match)
	if results[0].Node.Title != "TanStack Router" {
		t.Errorf("expected TanStack Router as first result, got %s", results[0].Node.Title)
	}
}

func TestFuzzySearch_MultipleMatches(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "GitHub", "https://github.com"),
		bookmark("b2", "GitLab", "https://gitlab.com"),
		bookmark("b3", "Gitea", "https://gitea.io"),
	}

	results := FuzzySearch(nodes, "git")

	if len(results) != 3 {
		t.Errorf("expected 3 results for 'git', got %d", len(results))
	}
}

func TestFuzzySearch_NoMatch(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "GitHub", "https://github.com"),
	}

	results := FuzzySearch(nodes, "xyz123")

	if len(results) != 0 {
		t.Errorf("expected 0 results for 'xyz123', got %d", len(results))
	}
}

func TestFuzzySearch_CaseInsensitive(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "GitHub", "https://github.com"),
	}

	results := FuzzySearch(nodes, "github")

	if len(results) != 1 {
		t.Fatalf("expected 1 result for case-insensitive match, got %d", len(results))
	}
}

func TestFuzzySearch_SortedByScore(t *testing.T) {
	nodes := []model.Node{
		bookmark("b1", "React Router Documentation", "https://reactrouter.com"),
		bookmark("b2", "Router", "https://router.example.com"),
	}

	results := FuzzySearch(nodes, "router")

	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	// "Router" should rank higher (exact match) than "React Router Documentation"
	if results[0].Node.Title != "Router" {
		t.Errorf("expected 'Router' as first result (exact match), got %s", results[0].Node.Title)
	}
}

func TestCollectBookmarks_FlattensFoldersInOrder(t *testing.T) {
	forest := []model.Node{
		{
			ID:    "f1",
			Title: "Dev",
			Children: []model.Node{
				bookmark("b1", "GitHub", "https://github.com"),
				{
					ID:    "f2",
					Title: "Docs",
					Children: []model.Node{
						bookmark("b2", "Go", "https://go.dev"),
					},
				},
			},
		},
		bookmark("b3", "News", "https://news.ycombinator.com"),
	}

	got := CollectBookmarks(forest)

	want := []string{"b1", "b2", "b3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d bookmarks, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("bookmark %d = %s, want %s", i, got[i].ID, id)
		}
	}
}
