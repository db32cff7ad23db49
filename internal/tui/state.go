package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/search"
	"github.com/nikbrunner/kiosk/internal/tui/layout"
)

// Mode is the editor's current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePalette
	ModeDrag
	ModeConfirmQuit
	ModeHelp
)

// String returns the label shown in the header.
func (m Mode) String() string {
	switch m {
	case ModePalette:
		return "PALETTE"
	case ModeDrag:
		return "DRAG"
	case ModeConfirmQuit:
		return "QUIT?"
	case ModeHelp:
		return "HELP"
	default:
		return "GRID"
	}
}

// PaletteState holds the fuzzy panel palette.
type PaletteState struct {
	Input   textinput.Model
	Matches []search.SearchResult
	Cursor  int
}

// NewPaletteState creates a PaletteState with an initialized input.
func NewPaletteState(cfg layout.LayoutConfig) PaletteState {
	input := textinput.New()
	input.Placeholder = "Filter panels..."
	input.CharLimit = cfg.Input.PaletteCharLimit
	input.Width = cfg.Input.PaletteWidth
	return PaletteState{Input: input}
}

// Reset clears the palette for a new session.
func (p *PaletteState) Reset() {
	p.Input.Reset()
	p.Matches = nil
	p.Cursor = 0
}

// Current returns the highlighted panel, if any.
func (p *PaletteState) Current() (model.PanelID, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Matches) {
		return "", false
	}
	return p.Matches[p.Cursor].Panel, true
}

// Status is the transient message line under the grid.
type Status struct {
	Text  string
	Error bool
}

// VisibilityState holds explicit show/hide overrides, in insertion order.
type VisibilityState struct {
	overrides []model.Visibility
}

// Set records or replaces the override for id.
func (v *VisibilityState) Set(id model.PanelID, visible bool) {
	for i := range v.overrides {
		if v.overrides[i].ID == id {
			v.overrides[i].Visible = visible
			return
		}
	}
	v.overrides = append(v.overrides, model.Visibility{ID: id, Visible: visible})
}

// Drop removes the override for id.
func (v *VisibilityState) Drop(id model.PanelID) {
	for i := range v.overrides {
		if v.overrides[i].ID == id {
			v.overrides = append(v.overrides[:i], v.overrides[i+1:]...)
			return
		}
	}
}

// Hidden reports whether id is explicitly hidden.
func (v *VisibilityState) Hidden(id model.PanelID) bool {
	for _, o := range v.overrides {
		if o.ID == id {
			return !o.Visible
		}
	}
	return false
}

// List returns a copy of the overrides.
func (v *VisibilityState) List() []model.Visibility {
	return append([]model.Visibility{}, v.overrides...)
}

// Equal reports whether the overrides match list, order included.
func (v *VisibilityState) Equal(list []model.Visibility) bool {
	if len(v.overrides) != len(list) {
		return false
	}
	for i := range list {
		if v.overrides[i] != list[i] {
			return false
		}
	}
	return true
}

// Replace swaps in loaded overrides.
func (v *VisibilityState) Replace(list []model.Visibility) {
	v.overrides = append([]model.Visibility{}, list...)
}
