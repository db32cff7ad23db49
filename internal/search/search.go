package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/kiosk/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Panel model.PanelID
	// Label is the searched text: the panel id followed by its features.
	Label          string
	MatchedIndexes []int
	Score          int
}

// panelLabels implements fuzzy.Source for a panel list.
type panelLabels []string

func (pl panelLabels) String(i int) string {
	return pl[i]
}

func (pl panelLabels) Len() int {
	return len(pl)
}

// Label returns the searchable text for a panel: its id, plus its feature ids
// for composite containers, so "weather" finds info_feed.
func Label(r *model.Registry, id model.PanelID) string {
	if r == nil || !r.IsComposite(id) {
		return string(id)
	}
	parts := []string{string(id)}
	for _, f := range r.Features(id) {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, " ")
}

// FuzzyFilterPanels filters panels by fuzzy matching the query against their
// labels. Results are sorted by match score (best first). An empty query
// returns every panel in the given order.
func FuzzyFilterPanels(r *model.Registry, ids []model.PanelID, query string) []SearchResult {
	labels := make(panelLabels, len(ids))
	for i, id := range ids {
		labels[i] = Label(r, id)
	}

	if strings.TrimSpace(query) == "" {
		results := make([]SearchResult, len(ids))
		for i, id := range ids {
			results[i] = SearchResult{Panel: id, Label: labels[i]}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, labels)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Panel:          ids[m.Index],
			Label:          labels[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
