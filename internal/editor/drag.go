package editor

import (
	"errors"

	"github.com/nikbrunner/kiosk/internal/model"
)

// ErrNoDrag means a drag operation was used while idle.
var ErrNoDrag = errors.New("no drag in progress")

// DragState tracks a drag in progress. The zero value is idle.
type DragState struct {
	Active bool
	Panel  model.PanelID
	// FromPalette is set when the panel is not on the grid yet.
	FromPalette bool
	// Target is the last cell passed to DragOver, Legal its verdict.
	Target model.Cell
	Legal  error
}

// Drag returns the current drag state.
func (e *Editor) Drag() DragState {
	return e.drag
}

// BeginDrag starts dragging a placed panel or a palette panel.
func (e *Editor) BeginDrag(id model.PanelID) error {
	switch {
	case e.layout.Has(id):
		e.drag = DragState{Active: true, Panel: id}
		p := e.layout.Find(id)
		e.drag.Target = model.Cell{Row: p.Row, Col: p.Col}
	case e.available(id):
		e.drag = DragState{Active: true, Panel: id, FromPalette: true}
	default:
		return &model.PlacementError{Op: "drag", ID: id, Err: model.ErrNotAvailable}
	}
	return nil
}

// DragOver previews dropping at the cell. It never mutates the layout.
func (e *Editor) DragOver(row, col int) error {
	if !e.drag.Active {
		return ErrNoDrag
	}
	e.drag.Target = model.Cell{Row: row, Col: col}
	e.drag.Legal = e.layout.Check(e.dragCandidate(row, col), e.drag.Panel)
	return e.drag.Legal
}

// Footprint returns the rectangle the dragged panel would occupy at the cell.
func (e *Editor) Footprint(row, col int) model.Placement {
	return e.dragCandidate(row, col)
}

func (e *Editor) dragCandidate(row, col int) model.Placement {
	c := model.Placement{ID: e.drag.Panel, Row: row, Col: col, Width: 1, Height: 1}
	if p := e.layout.Find(e.drag.Panel); p != nil {
		c.Width, c.Height = p.Width, p.Height
	}
	return c
}

// Drop commits the drag at the cell. An illegal drop leaves the layout
// unchanged. Either way the drag ends.
func (e *Editor) Drop(row, col int) error {
	if !e.drag.Active {
		return ErrNoDrag
	}
	d := e.drag
	e.drag = DragState{}

	if d.FromPalette {
		_, err := e.place(d.Panel, row, col)
		return err
	}
	if err := e.MoveTo(d.Panel, row, col); err != nil {
		return err
	}
	e.selection = Selection{Kind: SelectPlaced, Panel: d.Panel}
	return nil
}

// CancelDrag abandons the drag.
func (e *Editor) CancelDrag() {
	e.drag = DragState{}
}
