package search

import (
	"testing"

	"github.com/nikbrunner/kiosk/internal/model"
)

func TestFuzzyFilterPanels_EmptyQuery(t *testing.T) {
	r := model.DefaultRegistry()
	ids := []model.PanelID{model.Timer, model.News}

	results := FuzzyFilterPanels(r, ids, "  ")

	if len(results) != 2 {
		t.Fatalf("expected all panels for empty query, got %d", len(results))
	}
	if results[0].Panel != model.Timer || results[1].Panel != model.News {
		t.Errorf("expected input order, got %+v", results)
	}
}

func TestFuzzyFilterPanels_Match(t *testing.T) {
	r := model.DefaultRegistry()

	results := FuzzyFilterPanels(r, r.Panels(), "mus")

	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Panel != model.Music {
		t.Errorf("expected music first, got %s", results[0].Panel)
	}
	if len(results[0].MatchedIndexes) != 3 {
		t.Errorf("expected 3 matched indexes, got %v", results[0].MatchedIndexes)
	}
}

func TestFuzzyFilterPanels_FeatureFindsContainer(t *testing.T) {
	r := model.DefaultRegistry()

	results := FuzzyFilterPanels(r, r.Panels(), "weather")

	if len(results) != 1 || results[0].Panel != model.InfoFeed {
		t.Errorf("expected info_feed via its weather feature, got %+v", results)
	}
	if results[0].Label != "info_feed weather markets" {
		t.Errorf("unexpected label %q", results[0].Label)
	}
}

func TestFuzzyFilterPanels_NoMatch(t *testing.T) {
	r := model.DefaultRegistry()

	results := FuzzyFilterPanels(r, r.Panels(), "zzz")

	if len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
}
