package main

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/kiosk/internal/model"
)

func TestParseCell(t *testing.T) {
	n, err := parseCell("row", "1")
	assert.NilError(t, err)
	assert.Equal(t, n, 0)

	n, err = parseCell("column", "4")
	assert.NilError(t, err)
	assert.Equal(t, n, 3)

	for _, arg := range []string{"0", "-2", "x", ""} {
		_, err := parseCell("row", arg)
		assert.ErrorContains(t, err, "invalid row")
	}
}

func TestWriteGrid(t *testing.T) {
	doc := model.EmptyDocument()
	doc.Rows, doc.Columns = 2, 3
	doc.Panels = []model.Placement{
		{ID: "timer", Row: 0, Col: 0, Width: 2, Height: 1},
		{ID: "music", Row: 1, Col: 2, Width: 1, Height: 1},
	}
	doc.ActivePanels = []model.Visibility{{ID: "music", Visible: false}}

	var buf bytes.Buffer
	writeGrid(&buf, doc)
	out := buf.String()

	assert.Assert(t, is.Contains(out, "2x3 grid, 2 panels"))
	assert.Equal(t, strings.Count(out, "timer"), 2)
	assert.Assert(t, is.Contains(out, "(music)"))
	assert.Assert(t, !strings.Contains(out, "problems"))
}

func TestWriteGridReportsProblems(t *testing.T) {
	doc := model.EmptyDocument()
	doc.Rows, doc.Columns = 2, 2
	doc.Panels = []model.Placement{
		{ID: "news", Row: 1, Col: 1, Width: 2, Height: 1},
		{ID: "nope", Row: 0, Col: 0, Width: 1, Height: 1},
	}

	var buf bytes.Buffer
	writeGrid(&buf, doc)
	out := buf.String()

	assert.Assert(t, is.Contains(out, "2 problems:"))
	assert.Assert(t, is.Contains(out, "news does not fit the grid"))
	assert.Assert(t, is.Contains(out, "nope is not a known panel"))
}

func TestLoadPageDefault(t *testing.T) {
	page, err := loadPage("", model.DefaultRegistry())
	assert.NilError(t, err)
	assert.Assert(t, page.HasGrid())
	_, ok := page.FindPanel("music")
	assert.Assert(t, ok)
}
