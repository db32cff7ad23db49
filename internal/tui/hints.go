package tui

import (
	"strings"

	"github.com/nikbrunner/kiosk/internal/editor"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "h/l", "Enter")
	Desc string // Short description (e.g., "move", "place")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Cursor hints
	Edit   []Hint // Layout mutation hints
	Action []Hint // Enter, palette, drag
	System []Hint // Save, help, quit
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHints renders hints in horizontal format for the bottom bar: "hjkl:move p:palette"
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "y quit  n stay"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModePalette:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "filter"}, {Key: "↑/↓", Desc: "move"}},
			Action: []Hint{{Key: "Enter", Desc: "pick"}},
			System: []Hint{{Key: "Esc", Desc: "close"}},
		}
	case ModeDrag:
		return HintSet{
			Nav:    []Hint{{Key: "hjkl", Desc: "move"}},
			Action: []Hint{{Key: "Enter", Desc: "drop"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmQuit:
		return HintSet{
			System: []Hint{{Key: "y", Desc: "quit"}, {Key: "n", Desc: "stay"}},
		}
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return a.getNormalModeHints()
	}
}

// getNormalModeHints returns hints for the grid, depending on the selection.
func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav:    []Hint{{Key: "hjkl", Desc: "move"}},
		Action: []Hint{{Key: "p", Desc: "palette"}},
		System: []Hint{{Key: "s", Desc: "save"}, {Key: "?", Desc: "help"}, {Key: "q", Desc: "quit"}},
	}

	switch a.editor.Selection().Kind {
	case editor.SelectPending:
		hints.Action = append(hints.Action, Hint{Key: "Enter", Desc: "place"}, Hint{Key: "m", Desc: "drag"})
	case editor.SelectPlaced:
		hints.Action = append(hints.Action, Hint{Key: "m", Desc: "move"})
		hints.Edit = []Hint{
			{Key: "HJKL", Desc: "resize"},
			{Key: "v", Desc: "show/hide"},
			{Key: "d", Desc: "remove"},
		}
	default:
		hints.Action = append(hints.Action, Hint{Key: "Enter", Desc: "select"})
		hints.Edit = []Hint{{Key: "+/-", Desc: "rows"}, {Key: "</>", Desc: "cols"}}
	}

	if len(a.editor.Problems()) > 0 {
		hints.Edit = append(hints.Edit, Hint{Key: "P", Desc: "prune"})
	}
	return hints
}
