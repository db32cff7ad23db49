package model

import "fmt"

// Default grid size for a fresh layout.
const (
	DefaultRows    = 4
	DefaultColumns = 4
)

// Placement is one panel occupying a rectangle of grid cells.
// Row and Col are 0-indexed; Width and Height are at least 1.
type Placement struct {
	ID     PanelID `json:"id" yaml:"id"`
	Row    int     `json:"row" yaml:"row"`
	Col    int     `json:"col" yaml:"col"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
}

// Cell is a single grid coordinate.
type Cell struct {
	Row int
	Col int
}

// Cells returns every cell the placement occupies, row-major.
func (p Placement) Cells() []Cell {
	if p.Width < 1 || p.Height < 1 {
		return nil
	}
	var cells []Cell
	for dr := 0; dr < p.Height; dr++ {
		for dc := 0; dc < p.Width; dc++ {
			cells = append(cells, Cell{Row: p.Row + dr, Col: p.Col + dc})
		}
	}
	return cells
}

// Covers reports whether the placement occupies the cell.
func (p Placement) Covers(row, col int) bool {
	return within(row, p.Row, p.Height) && within(col, p.Col, p.Width)
}

// Overlaps reports whether two placements share at least one cell.
func (p Placement) Overlaps(o Placement) bool {
	return spansOverlap(p.Row, p.Height, o.Row, o.Height) &&
		spansOverlap(p.Col, p.Width, o.Col, o.Width)
}

// FitsIn reports whether the placement lies entirely inside a rows x cols grid.
func (p Placement) FitsIn(rows, cols int) bool {
	return p.Width >= 1 && p.Height >= 1 &&
		p.Row >= 0 && p.Col >= 0 &&
		p.Row < rows && p.Col < cols &&
		p.Height <= rows-p.Row && p.Width <= cols-p.Col
}

// within reports whether x lies in [start, start+n). The distance is taken
// unsigned so huge coordinates cannot wrap.
func within(x, start, n int) bool {
	if n < 1 || x < start {
		return false
	}
	return uint(x)-uint(start) < uint(n)
}

func spansOverlap(a, n, b, m int) bool {
	if a <= b {
		return within(b, a, n) && m >= 1
	}
	return within(a, b, m) && n >= 1
}

// Layout is a grid size plus the panels placed on it.
type Layout struct {
	Rows    int         `json:"rows" yaml:"rows"`
	Columns int         `json:"columns" yaml:"columns"`
	Panels  []Placement `json:"panels" yaml:"panels"`
}

// NewLayout returns an empty layout at the default grid size.
func NewLayout() Layout {
	return Layout{
		Rows:    DefaultRows,
		Columns: DefaultColumns,
		Panels:  []Placement{},
	}
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	c := l
	c.Panels = make([]Placement, len(l.Panels))
	copy(c.Panels, l.Panels)
	return c
}

// Find returns the placement for id, or nil if the panel is not placed.
func (l *Layout) Find(id PanelID) *Placement {
	for i := range l.Panels {
		if l.Panels[i].ID == id {
			return &l.Panels[i]
		}
	}
	return nil
}

// Has reports whether the panel is placed.
func (l Layout) Has(id PanelID) bool {
	return l.Find(id) != nil
}

// OccupantAt returns the panel covering the cell.
func (l Layout) OccupantAt(row, col int) (PanelID, bool) {
	for _, p := range l.Panels {
		if p.Covers(row, col) {
			return p.ID, true
		}
	}
	return "", false
}

// Check validates a candidate placement against the grid bounds and every
// placement except the one named by ignore. It returns ErrOutOfBounds or
// ErrOccupiedCell.
func (l Layout) Check(candidate Placement, ignore PanelID) error {
	if !candidate.FitsIn(l.Rows, l.Columns) {
		return ErrOutOfBounds
	}
	for _, p := range l.Panels {
		if p.ID == ignore || p.ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(p) {
			return ErrOccupiedCell
		}
	}
	return nil
}

// Equal reports whether two layouts have the same grid and placements in the
// same order.
func (l Layout) Equal(o Layout) bool {
	if l.Rows != o.Rows || l.Columns != o.Columns || len(l.Panels) != len(o.Panels) {
		return false
	}
	for i := range l.Panels {
		if l.Panels[i] != o.Panels[i] {
			return false
		}
	}
	return true
}

// ProblemKind classifies a layout problem.
type ProblemKind string

const (
	ProblemOutOfBounds ProblemKind = "out_of_bounds"
	ProblemOverlap     ProblemKind = "overlap"
	ProblemDuplicate   ProblemKind = "duplicate"
	ProblemUnknown     ProblemKind = "unknown_panel"
)

// Problem is a placement that violates a layout invariant.
type Problem struct {
	Kind ProblemKind
	ID   PanelID
	// Other is the earlier placement an overlap or duplicate conflicts with.
	Other PanelID
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemOutOfBounds:
		return fmt.Sprintf("%s does not fit the grid", p.ID)
	case ProblemOverlap:
		return fmt.Sprintf("%s overlaps %s", p.ID, p.Other)
	case ProblemDuplicate:
		return fmt.Sprintf("%s is placed more than once", p.ID)
	case ProblemUnknown:
		return fmt.Sprintf("%s is not a known panel", p.ID)
	default:
		return string(p.Kind)
	}
}

// Problems reports placements that do not fit the grid, overlap an earlier
// placement, or repeat an earlier id. Placements are checked in order, so the
// later of two conflicting placements is the one reported.
func (l Layout) Problems() []Problem {
	var problems []Problem
	var accepted []Placement
	seen := map[PanelID]bool{}
	for _, p := range l.Panels {
		if seen[p.ID] {
			problems = append(problems, Problem{Kind: ProblemDuplicate, ID: p.ID, Other: p.ID})
			continue
		}
		seen[p.ID] = true
		if !p.FitsIn(l.Rows, l.Columns) {
			problems = append(problems, Problem{Kind: ProblemOutOfBounds, ID: p.ID})
			continue
		}
		conflict := false
		for _, a := range accepted {
			if p.Overlaps(a) {
				problems = append(problems, Problem{Kind: ProblemOverlap, ID: p.ID, Other: a.ID})
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, p)
		}
	}
	return problems
}

// UnknownPanels reports placements whose id the registry does not declare.
func (l Layout) UnknownPanels(r *Registry) []Problem {
	var problems []Problem
	for _, p := range l.Panels {
		if !r.Known(p.ID) {
			problems = append(problems, Problem{Kind: ProblemUnknown, ID: p.ID})
		}
	}
	return problems
}
