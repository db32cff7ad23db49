package editor

import (
	"github.com/nikbrunner/kiosk/internal/model"
)

// SelectionKind is the editor's current selection mode.
type SelectionKind int

const (
	// SelectNone means nothing is selected.
	SelectNone SelectionKind = iota
	// SelectPending means a palette panel is waiting to be placed.
	SelectPending
	// SelectPlaced means a panel on the grid is selected for editing.
	SelectPlaced
)

// Selection is either nothing, a pending palette panel, or a placed panel.
type Selection struct {
	Kind  SelectionKind
	Panel model.PanelID
}

// Tracker is notified after every successful layout mutation.
type Tracker interface {
	MarkDirty()
}

// UnsavedFlag is a Tracker holding a single dirty bit.
type UnsavedFlag struct {
	dirty bool
}

// MarkDirty implements Tracker.
func (f *UnsavedFlag) MarkDirty() { f.dirty = true }

// Clear resets the flag after a save or a settings reset.
func (f *UnsavedFlag) Clear() { f.dirty = false }

// IsSet reports whether there are unsaved changes.
func (f *UnsavedFlag) IsSet() bool { return f.dirty }

type noopTracker struct{}

func (noopTracker) MarkDirty() {}

// Params configures a new Editor.
type Params struct {
	Registry   *model.Registry
	Enablement model.Enablement
	Tracker    Tracker
	// Layout is the starting layout; an empty default layout when nil.
	Layout *model.Layout
}

// Editor holds the layout being designed plus selection and drag state.
// Every mutation validates before it changes anything.
type Editor struct {
	registry   *model.Registry
	enablement model.Enablement
	tracker    Tracker

	layout    model.Layout
	selection Selection
	drag      DragState
}

// New creates an Editor.
func New(p Params) *Editor {
	e := &Editor{
		registry:   p.Registry,
		enablement: p.Enablement,
		tracker:    p.Tracker,
		layout:     model.NewLayout(),
	}
	if e.registry == nil {
		e.registry = model.DefaultRegistry()
	}
	if e.enablement == nil {
		e.enablement = model.AllEnabled(e.registry)
	}
	if e.tracker == nil {
		e.tracker = noopTracker{}
	}
	if p.Layout != nil {
		e.layout = p.Layout.Clone()
	}
	return e
}

// Registry returns the editor's panel registry.
func (e *Editor) Registry() *model.Registry {
	return e.registry
}

// SetEnablement swaps the feature toggles used for availability.
func (e *Editor) SetEnablement(en model.Enablement) {
	e.enablement = en
}

// Enablement returns the active feature toggles.
func (e *Editor) Enablement() model.Enablement {
	return e.enablement
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	return e.selection
}

// ClearSelection drops any pending or placed selection.
func (e *Editor) ClearSelection() {
	e.selection = Selection{}
}

// Rows returns the grid row count.
func (e *Editor) Rows() int { return e.layout.Rows }

// Columns returns the grid column count.
func (e *Editor) Columns() int { return e.layout.Columns }

// Placement returns the placement of a panel on the grid.
func (e *Editor) Placement(id model.PanelID) (model.Placement, bool) {
	p := e.layout.Find(id)
	if p == nil {
		return model.Placement{}, false
	}
	return *p, true
}

// OccupantAt returns the panel covering the cell.
func (e *Editor) OccupantAt(row, col int) (model.PanelID, bool) {
	return e.layout.OccupantAt(row, col)
}

// Problems reports placements that no longer satisfy the layout invariants,
// which happens after the grid is shrunk below a panel's footprint.
func (e *Editor) Problems() []model.Problem {
	return e.layout.Problems()
}

// SetGridSize changes the grid dimensions. Existing placements are kept even
// when they no longer fit; see Problems and Prune.
func (e *Editor) SetGridSize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return &model.PlacementError{Op: "resize grid", Row: rows - 1, Col: cols - 1, Err: model.ErrInvalidGrid}
	}
	e.layout.Rows = rows
	e.layout.Columns = cols
	e.selection = Selection{}
	e.tracker.MarkDirty()
	return nil
}

// Prune removes every placement reported by Problems and returns their ids.
func (e *Editor) Prune() []model.PanelID {
	problems := e.layout.Problems()
	if len(problems) == 0 {
		return nil
	}

	// Duplicates share an id with a valid placement, so remove by index.
	drop := map[int]bool{}
	seen := map[model.PanelID]bool{}
	var accepted []model.Placement
	for i, p := range e.layout.Panels {
		if seen[p.ID] || !p.FitsIn(e.layout.Rows, e.layout.Columns) || overlapsAny(p, accepted) {
			drop[i] = true
			continue
		}
		seen[p.ID] = true
		accepted = append(accepted, p)
	}

	var removed []model.PanelID
	kept := make([]model.Placement, 0, len(accepted))
	for i, p := range e.layout.Panels {
		if drop[i] {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	e.layout.Panels = kept
	if e.selection.Kind == SelectPlaced && !e.layout.Has(e.selection.Panel) {
		e.selection = Selection{}
	}
	e.tracker.MarkDirty()
	return removed
}

func overlapsAny(p model.Placement, others []model.Placement) bool {
	for _, o := range others {
		if p.Overlaps(o) {
			return true
		}
	}
	return false
}

// AvailablePanels returns enabled panels that are not on the grid, in
// registry order.
func (e *Editor) AvailablePanels() []model.PanelID {
	var ids []model.PanelID
	for _, id := range e.registry.EnabledPanels(e.enablement) {
		if !e.layout.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Editor) available(id model.PanelID) bool {
	for _, a := range e.AvailablePanels() {
		if a == id {
			return true
		}
	}
	return false
}

// SelectForPlacement marks a palette panel as pending placement.
func (e *Editor) SelectForPlacement(id model.PanelID) error {
	if !e.available(id) {
		return &model.PlacementError{Op: "select", ID: id, Err: model.ErrNotAvailable}
	}
	e.selection = Selection{Kind: SelectPending, Panel: id}
	return nil
}

// SelectPlaced selects a panel already on the grid.
func (e *Editor) SelectPlaced(id model.PanelID) error {
	if !e.layout.Has(id) {
		return &model.PlacementError{Op: "select", ID: id, Err: model.ErrNotPlaced}
	}
	e.selection = Selection{Kind: SelectPlaced, Panel: id}
	return nil
}

// PlaceAt places the pending panel as a 1x1 at the cell. On success the new
// placement becomes the selected placed panel.
func (e *Editor) PlaceAt(row, col int) (model.Placement, error) {
	if e.selection.Kind != SelectPending {
		return model.Placement{}, &model.PlacementError{Op: "place", Row: row, Col: col, Err: model.ErrNoSelection}
	}
	return e.place(e.selection.Panel, row, col)
}

func (e *Editor) place(id model.PanelID, row, col int) (model.Placement, error) {
	if !e.available(id) {
		return model.Placement{}, &model.PlacementError{Op: "place", ID: id, Row: row, Col: col, Err: model.ErrNotAvailable}
	}
	p := model.Placement{ID: id, Row: row, Col: col, Width: 1, Height: 1}
	if err := e.layout.Check(p, ""); err != nil {
		return model.Placement{}, &model.PlacementError{Op: "place", ID: id, Row: row, Col: col, Err: err}
	}
	e.layout.Panels = append(e.layout.Panels, p)
	e.selection = Selection{Kind: SelectPlaced, Panel: id}
	e.tracker.MarkDirty()
	return p, nil
}

// MoveTo relocates a placed panel, keeping its size.
func (e *Editor) MoveTo(id model.PanelID, row, col int) error {
	p := e.layout.Find(id)
	if p == nil {
		return &model.PlacementError{Op: "move", ID: id, Row: row, Col: col, Err: model.ErrNotPlaced}
	}
	candidate := *p
	candidate.Row, candidate.Col = row, col
	if err := e.layout.Check(candidate, id); err != nil {
		return &model.PlacementError{Op: "move", ID: id, Row: row, Col: col, Err: err}
	}
	*p = candidate
	e.tracker.MarkDirty()
	return nil
}

// Resize changes a placed panel's span, keeping its origin.
func (e *Editor) Resize(id model.PanelID, width, height int) error {
	p := e.layout.Find(id)
	if p == nil {
		return &model.PlacementError{Op: "resize", ID: id, Err: model.ErrNotPlaced}
	}
	candidate := *p
	candidate.Width, candidate.Height = width, height
	if err := e.layout.Check(candidate, id); err != nil {
		return &model.PlacementError{Op: "resize", ID: id, Row: p.Row, Col: p.Col, Err: err}
	}
	*p = candidate
	e.tracker.MarkDirty()
	return nil
}

// Remove takes a panel off the grid. Removing an absent panel is a no-op.
func (e *Editor) Remove(id model.PanelID) {
	idx := -1
	for i := range e.layout.Panels {
		if e.layout.Panels[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	e.layout.Panels = append(e.layout.Panels[:idx], e.layout.Panels[idx+1:]...)
	if e.selection.Kind == SelectPlaced && e.selection.Panel == id {
		e.selection = Selection{}
	}
	if e.drag.Active && e.drag.Panel == id {
		e.drag = DragState{}
	}
	e.tracker.MarkDirty()
}

// Reset returns to an empty default grid.
func (e *Editor) Reset() {
	e.layout = model.NewLayout()
	e.selection = Selection{}
	e.drag = DragState{}
	e.tracker.MarkDirty()
}

// ExportLayout returns a copy of the current layout.
func (e *Editor) ExportLayout() model.Layout {
	return e.layout.Clone()
}

// ImportLayout replaces the current layout without validation. The source is
// the editor's own persisted output and is trusted.
func (e *Editor) ImportLayout(l model.Layout) {
	e.layout = l.Clone()
	if e.layout.Panels == nil {
		e.layout.Panels = []model.Placement{}
	}
	e.selection = Selection{}
	e.drag = DragState{}
}
