package tui_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/tui"
	"github.com/nikbrunner/kiosk/internal/tui/layout"
)

// createTestApp creates a test app with fixed dimensions.
func createTestApp(width, height int, l *model.Layout) tui.App {
	cfg := layout.DefaultConfig()
	app := tui.NewApp(tui.AppParams{
		Layout:       l,
		LayoutConfig: &cfg,
		Clipboard:    func(string) error { return nil },
	})
	return app.WithDimensions(width, height)
}

func TestView_EmptyGrid(t *testing.T) {
	app := createTestApp(80, 24, nil)

	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "Kiosk Layout"))
	assert.Assert(t, is.Contains(output, "grid 4x4 · GRID"))
	assert.Assert(t, is.Contains(output, "[·]"), "cursor cell")
	assert.Assert(t, is.Contains(output, "Info Feed"), "available list")
	assert.Assert(t, !strings.Contains(output, "unsaved"))
	assert.Assert(t, !strings.Contains(output, "Problems"))
}

func TestView_PlacedPanels(t *testing.T) {
	l := model.Layout{Rows: 2, Columns: 3, Panels: []model.Placement{
		{ID: model.News, Row: 0, Col: 1, Width: 2, Height: 1},
		{ID: model.Music, Row: 1, Col: 0, Width: 1, Height: 1},
	}}
	app := createTestApp(100, 30, &l)

	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "grid 2x3"))
	assert.Assert(t, is.Contains(output, "News"))
	assert.Assert(t, is.Contains(output, "Music"))
	assert.Assert(t, is.Contains(output, "Timer"), "timer is still available")

	// placed panels leave the available list
	assert.Equal(t, strings.Count(output, "Music"), 1)
}

func TestView_Problems(t *testing.T) {
	l := model.Layout{Rows: 2, Columns: 2, Panels: []model.Placement{
		{ID: model.News, Row: 0, Col: 0, Width: 2, Height: 1},
		{ID: model.Timer, Row: 0, Col: 1, Width: 1, Height: 1},
		{ID: model.Video, Row: 1, Col: 1, Width: 2, Height: 1},
	}}
	app := createTestApp(100, 30, &l)

	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "Problems"))
	assert.Assert(t, is.Contains(output, "timer overlaps news"))
	assert.Assert(t, is.Contains(output, "video does not fit the grid"))
	assert.Assert(t, is.Contains(output, "P:prune"))
}

func TestView_Palette(t *testing.T) {
	app := createTestApp(100, 30, nil)

	app, _ = press(app, "p", "w", "e", "a")
	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "PALETTE"))
	assert.Assert(t, is.Contains(output, "info_feed weather markets"))
	assert.Assert(t, !strings.Contains(output, "▸ music"))
}

func TestView_DragPreview(t *testing.T) {
	l := model.Layout{Rows: 4, Columns: 4, Panels: []model.Placement{
		{ID: model.News, Row: 0, Col: 0, Width: 1, Height: 1},
	}}
	app := createTestApp(100, 30, &l)

	app, _ = press(app, "enter", "m")
	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "DRAG"))
	assert.Assert(t, is.Contains(output, "Enter:drop"))
}

func TestView_ConfirmQuit(t *testing.T) {
	app := createTestApp(80, 24, nil)
	app = placeTimer(app)

	app, _ = press(app, "q")
	output := layout.StripANSI(app.View())

	assert.Assert(t, is.Contains(output, "You have unsaved changes."))
	assert.Assert(t, is.Contains(output, "quit without saving"))
}
