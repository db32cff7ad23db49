package editor_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/kiosk/internal/editor"
	"github.com/nikbrunner/kiosk/internal/model"
)

func newEditor(t *testing.T) (*editor.Editor, *editor.UnsavedFlag) {
	t.Helper()
	flag := &editor.UnsavedFlag{}
	e := editor.New(editor.Params{
		Registry:   model.DefaultRegistry(),
		Enablement: model.AllEnabled(model.DefaultRegistry()),
		Tracker:    flag,
	})
	return e, flag
}

func place(t *testing.T, e *editor.Editor, id model.PanelID, row, col int) {
	t.Helper()
	assert.NilError(t, e.SelectForPlacement(id))
	_, err := e.PlaceAt(row, col)
	assert.NilError(t, err)
}

func contains(ids []model.PanelID, id model.PanelID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestEditor_PlaceSelectsPlacedPanel(t *testing.T) {
	e, flag := newEditor(t)

	assert.NilError(t, e.SelectForPlacement(model.News))
	assert.Equal(t, e.Selection(), editor.Selection{Kind: editor.SelectPending, Panel: model.News})

	p, err := e.PlaceAt(0, 0)
	assert.NilError(t, err)
	assert.Equal(t, p, model.Placement{ID: model.News, Row: 0, Col: 0, Width: 1, Height: 1})

	l := e.ExportLayout()
	assert.Equal(t, l.Rows, 4)
	assert.Equal(t, l.Columns, 4)
	assert.DeepEqual(t, l.Panels, []model.Placement{p})
	assert.Equal(t, e.Selection(), editor.Selection{Kind: editor.SelectPlaced, Panel: model.News})
	assert.Assert(t, !contains(e.AvailablePanels(), model.News))
	assert.Assert(t, flag.IsSet())
}

func TestEditor_PlaceWithoutSelection(t *testing.T) {
	e, flag := newEditor(t)

	_, err := e.PlaceAt(0, 0)
	assert.ErrorIs(t, err, model.ErrNoSelection)
	assert.Assert(t, !flag.IsSet())
}

func TestEditor_SelectForPlacementRejectsUnavailable(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)

	tests := []struct {
		name string
		id   model.PanelID
	}{
		{"already placed", model.News},
		{"unknown panel", "clock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SelectForPlacement(tt.id)
			assert.ErrorIs(t, err, model.ErrNotAvailable)
		})
	}
}

func TestEditor_SelectionIsExclusive(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)

	assert.NilError(t, e.SelectForPlacement(model.Timer))
	assert.Equal(t, e.Selection().Kind, editor.SelectPending)

	assert.NilError(t, e.SelectPlaced(model.News))
	assert.Equal(t, e.Selection(), editor.Selection{Kind: editor.SelectPlaced, Panel: model.News})

	// Idempotent
	assert.NilError(t, e.SelectForPlacement(model.Timer))
	assert.NilError(t, e.SelectForPlacement(model.Timer))
	assert.Equal(t, e.Selection(), editor.Selection{Kind: editor.SelectPending, Panel: model.Timer})
}

func TestEditor_ResizeIntoOccupiedCellIsRejected(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)
	place(t, e, model.Timer, 0, 1)
	before := e.ExportLayout()

	err := e.Resize(model.News, 2, 1)
	assert.ErrorIs(t, err, model.ErrOccupiedCell)
	assert.Assert(t, e.ExportLayout().Equal(before))
}

func TestEditor_MoveIgnoresOwnCells(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)
	assert.NilError(t, e.Resize(model.News, 2, 2))

	assert.NilError(t, e.MoveTo(model.News, 1, 1))

	p, ok := e.Placement(model.News)
	assert.Assert(t, ok)
	assert.Equal(t, p, model.Placement{ID: model.News, Row: 1, Col: 1, Width: 2, Height: 2})
}

func TestEditor_MutationErrors(t *testing.T) {
	tests := []struct {
		name string
		op   func(e *editor.Editor) error
		want error
	}{
		{"move not placed", func(e *editor.Editor) error { return e.MoveTo(model.Music, 0, 0) }, model.ErrNotPlaced},
		{"resize not placed", func(e *editor.Editor) error { return e.Resize(model.Music, 1, 1) }, model.ErrNotPlaced},
		{"move past edge", func(e *editor.Editor) error { return e.MoveTo(model.News, 3, 4) }, model.ErrOutOfBounds},
		{"move onto timer", func(e *editor.Editor) error { return e.MoveTo(model.News, 3, 3) }, model.ErrOccupiedCell},
		{"resize past edge", func(e *editor.Editor) error { return e.Resize(model.News, 5, 1) }, model.ErrOutOfBounds},
		{"resize to zero", func(e *editor.Editor) error { return e.Resize(model.News, 0, 1) }, model.ErrOutOfBounds},
		{"move far outside", func(e *editor.Editor) error { return e.MoveTo(model.News, 5, 5) }, model.ErrOutOfBounds},
		{"move max row", func(e *editor.Editor) error { return e.MoveTo(model.News, math.MaxInt, 0) }, model.ErrOutOfBounds},
		{"move max col", func(e *editor.Editor) error { return e.MoveTo(model.News, 0, math.MaxInt) }, model.ErrOutOfBounds},
		{"move min row", func(e *editor.Editor) error { return e.MoveTo(model.News, math.MinInt, 0) }, model.ErrOutOfBounds},
		{"resize overflowing area", func(e *editor.Editor) error { return e.Resize(model.News, math.MaxInt/2+1, 2) }, model.ErrOutOfBounds},
		{"resize max height", func(e *editor.Editor) error { return e.Resize(model.News, 1, math.MaxInt) }, model.ErrOutOfBounds},
		{"resize huge", func(e *editor.Editor) error { return e.Resize(model.News, 100000, 100000) }, model.ErrOutOfBounds},
		{"grid zero rows", func(e *editor.Editor) error { return e.SetGridSize(0, 3) }, model.ErrInvalidGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor(t)
			place(t, e, model.News, 0, 0)
			place(t, e, model.Timer, 3, 3)
			before := e.ExportLayout()

			err := tt.op(e)
			assert.ErrorIs(t, err, tt.want)

			var perr *model.PlacementError
			assert.Assert(t, errors.As(err, &perr))
			assert.Assert(t, e.ExportLayout().Equal(before))
		})
	}
}

func TestEditor_RemoveClearsSelection(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)

	e.Remove(model.News)
	assert.Equal(t, e.Selection().Kind, editor.SelectNone)
	assert.Assert(t, is.Len(e.ExportLayout().Panels, 0))
	assert.Assert(t, is.Contains(e.AvailablePanels(), model.News))

	// Absent panel is a no-op
	e.Remove(model.News)
}

func TestEditor_RemoveKeepsOrder(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 0, 0)
	place(t, e, model.Timer, 0, 1)
	place(t, e, model.Music, 0, 2)

	e.Remove(model.Timer)

	var ids []model.PanelID
	for _, p := range e.ExportLayout().Panels {
		ids = append(ids, p.ID)
	}
	assert.DeepEqual(t, ids, []model.PanelID{model.News, model.Music})
}

func TestEditor_ResetIsIdempotent(t *testing.T) {
	e, _ := newEditor(t)
	assert.NilError(t, e.SetGridSize(6, 3))
	place(t, e, model.News, 0, 0)

	e.Reset()
	first := e.ExportLayout()
	e.Reset()

	assert.Assert(t, first.Equal(model.NewLayout()))
	assert.Assert(t, e.ExportLayout().Equal(first))
	assert.Equal(t, e.Selection().Kind, editor.SelectNone)
}

func TestEditor_SetGridSizeKeepsPlacements(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.News, 3, 3)
	place(t, e, model.Timer, 0, 0)
	assert.NilError(t, e.SelectForPlacement(model.Music))

	assert.NilError(t, e.SetGridSize(2, 2))

	assert.Equal(t, e.Selection().Kind, editor.SelectNone)
	assert.Assert(t, is.Len(e.ExportLayout().Panels, 2))
	assert.DeepEqual(t, e.Problems(), []model.Problem{{Kind: model.ProblemOutOfBounds, ID: model.News}})

	removed := e.Prune()
	assert.DeepEqual(t, removed, []model.PanelID{model.News})
	assert.Assert(t, is.Len(e.Problems(), 0))
	assert.Assert(t, e.ExportLayout().Has(model.Timer))
}

func TestEditor_ExportImportRoundTrip(t *testing.T) {
	e, _ := newEditor(t)
	assert.NilError(t, e.SetGridSize(3, 5))
	place(t, e, model.News, 0, 0)
	place(t, e, model.Music, 2, 4)
	assert.NilError(t, e.Resize(model.News, 3, 2))
	exported := e.ExportLayout()

	other, flag := newEditor(t)
	other.ImportLayout(exported)

	assert.Assert(t, other.ExportLayout().Equal(exported))
	assert.Assert(t, !flag.IsSet(), "import does not mark dirty")

	// Export is a copy
	exported.Panels[0].Row = 2
	p, _ := other.Placement(model.News)
	assert.Equal(t, p.Row, 0)
}

func TestEditor_CompositeAvailabilityUsesAnyFeature(t *testing.T) {
	e := editor.New(editor.Params{
		Registry:   model.DefaultRegistry(),
		Enablement: model.Toggles{model.Weather: true, model.Markets: false},
	})

	assert.DeepEqual(t, e.AvailablePanels(), []model.PanelID{model.InfoFeed})

	e.SetEnablement(model.Toggles{})
	assert.Assert(t, is.Len(e.AvailablePanels(), 0))
}

func TestEditor_FailedOperationsLeaveDirtyClear(t *testing.T) {
	e, flag := newEditor(t)
	place(t, e, model.News, 0, 0)
	flag.Clear()

	_ = e.MoveTo(model.News, 9, 9)
	_ = e.Resize(model.News, 9, 9)
	_ = e.SetGridSize(0, 0)
	_ = e.SelectForPlacement(model.News)
	e.Remove(model.System)

	assert.Assert(t, !flag.IsSet())
}

// Random operation sequences on a fixed grid never violate the bounds and
// non-overlap invariants.
func TestEditor_InvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e, _ := newEditor(t)
	panels := model.DefaultRegistry().Panels()

	for i := 0; i < 2000; i++ {
		id := panels[rng.Intn(len(panels))]
		row, col := rng.Intn(6)-1, rng.Intn(6)-1
		switch rng.Intn(6) {
		case 0:
			if e.SelectForPlacement(id) == nil {
				_, _ = e.PlaceAt(row, col)
			}
		case 1:
			_ = e.MoveTo(id, row, col)
		case 2:
			_ = e.Resize(id, rng.Intn(4), rng.Intn(4))
		case 3:
			if rng.Intn(4) == 0 {
				e.Remove(id)
			}
		case 4:
			if e.BeginDrag(id) == nil {
				_ = e.DragOver(row, col)
				_ = e.Drop(row, col)
			}
		case 5:
			if rng.Intn(50) == 0 {
				e.Reset()
			}
		}

		if problems := e.Problems(); len(problems) > 0 {
			t.Fatalf("step %d: invariant broken: %v", i, problems)
		}
	}
}

func TestEditor_PlaceNextToWidenedPanel(t *testing.T) {
	e, _ := newEditor(t)
	place(t, e, model.Timer, 0, 0)
	assert.NilError(t, e.Resize(model.Timer, 2, 1))

	assert.NilError(t, e.SelectForPlacement(model.News))
	_, err := e.PlaceAt(0, 1)
	assert.ErrorIs(t, err, model.ErrOccupiedCell)
	assert.Assert(t, !e.ExportLayout().Has(model.News))
}

func TestEditor_PlaceOnFullGrid(t *testing.T) {
	e, _ := newEditor(t)
	assert.NilError(t, e.SetGridSize(2, 2))
	place(t, e, model.News, 0, 0)
	assert.NilError(t, e.Resize(model.News, 1, 2))
	place(t, e, model.Timer, 0, 1)
	assert.NilError(t, e.Resize(model.Timer, 1, 2))
	before := e.ExportLayout()

	tests := []struct {
		row, col int
	}{
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
	}
	for _, tt := range tests {
		assert.NilError(t, e.SelectForPlacement(model.Music))
		_, err := e.PlaceAt(tt.row, tt.col)
		assert.ErrorIs(t, err, model.ErrOccupiedCell, "cell %d,%d", tt.row, tt.col)
	}
	assert.Assert(t, e.ExportLayout().Equal(before))
	assert.Assert(t, e.ExportLayout().Problems() == nil)
}
