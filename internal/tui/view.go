package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/kiosk/internal/editor"
	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/search"
	"github.com/nikbrunner/kiosk/internal/tui/layout"
)

// renderView creates the complete editor view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderModal("Keys", a.help.FullHelpView(a.keys.FullHelp()))
	case ModeConfirmQuit:
		body := "You have unsaved changes.\n\n" + a.renderHintsInline([]Hint{
			{Key: "y", Desc: "quit without saving"},
			{Key: "n", Desc: "keep editing"},
		})
		return a.renderModal("Quit?", body)
	}

	var sidebar string
	if a.mode == ModePalette {
		sidebar = a.renderPalette()
	} else {
		sidebar = a.renderPanels()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.renderGrid(), a.styles.Sidebar.Render(sidebar))

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		body,
		a.renderStatus(),
		a.styles.Help.Render(a.renderHints(a.getContextualHints())),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderHeader() string {
	parts := []string{
		fmt.Sprintf("grid %dx%d", a.editor.Rows(), a.editor.Columns()),
		a.mode.String(),
	}
	if a.session.InFlight() {
		parts = append(parts, "busy")
	}
	if a.unsaved.IsSet() {
		parts = append(parts, "unsaved")
	}
	return a.styles.Title.Render("Kiosk Layout") + "  " + a.styles.Header.Render(strings.Join(parts, " · "))
}

func (a App) renderStatus() string {
	if a.status.Text == "" {
		return ""
	}
	if a.status.Error {
		return a.styles.StatusError.Render(a.status.Text)
	}
	return a.styles.Status.Render(a.status.Text)
}

// renderGrid draws one block per cell, row by row.
func (a App) renderGrid() string {
	rows, cols := a.editor.Rows(), a.editor.Columns()
	cfg := a.layoutConfig.Grid
	size := layout.CalculateCellSize(a.width, a.height, rows, cols, cfg)
	gap := strings.Repeat(" ", cfg.CellGap)

	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		parts := make([]string, 0, cols*2)
		for c := 0; c < cols; c++ {
			if c > 0 && gap != "" {
				parts = append(parts, gap)
			}
			label, style := a.cellContent(r, c, size.Width)
			parts = append(parts, style.Width(size.Width).Height(size.Height).Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// cellContent picks the label and style for one cell. A drag footprint wins
// over placed panels; a panel's title is drawn in its origin cell only.
func (a App) cellContent(row, col, width int) (string, lipgloss.Style) {
	label := ""
	style := a.styles.Cell

	if drag := a.editor.Drag(); drag.Active {
		fp := a.editor.Footprint(a.cursor.Row, a.cursor.Col)
		if fp.Covers(row, col) {
			if drag.Legal == nil {
				style = a.styles.DropLegal
			} else {
				style = a.styles.DropIllegal
			}
			if row == fp.Row && col == fp.Col {
				label = exporter.Title(drag.Panel)
			}
			return a.decorateCursor(label, row, col, width), style
		}
	}

	if id, ok := a.editor.OccupantAt(row, col); ok {
		p, _ := a.editor.Placement(id)
		sel := a.editor.Selection()
		switch {
		case sel.Kind == editor.SelectPlaced && sel.Panel == id:
			style = a.styles.CellSelected
		case a.visibility.Hidden(id):
			style = a.styles.CellHidden
		default:
			style = a.styles.CellPlaced
		}
		if row == p.Row && col == p.Col {
			label = exporter.Title(id)
		}
	} else {
		label = "·"
	}
	return a.decorateCursor(label, row, col, width), style
}

func (a App) decorateCursor(label string, row, col, width int) string {
	if row != a.cursor.Row || col != a.cursor.Col {
		label, _ = layout.TruncateText(label, width, a.layoutConfig.Text)
		return label
	}
	label, _ = layout.TruncateText(label, width-2, a.layoutConfig.Text)
	return a.styles.CellCursor.Render("[" + label + "]")
}

// renderPanels shows the selection, the panels not on the grid and any
// invalid placements.
func (a App) renderPanels() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Selection"))
	b.WriteString("\n")
	b.WriteString(a.describeSelection())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Title.Render("Available"))
	b.WriteString("\n")
	avail := a.editor.AvailablePanels()
	if len(avail) == 0 {
		b.WriteString(a.styles.Empty.Render("  all panels placed"))
		b.WriteString("\n")
	}
	sel := a.editor.Selection()
	for _, id := range avail {
		if sel.Kind == editor.SelectPending && sel.Panel == id {
			b.WriteString(a.styles.ItemSelected.Render("▸ " + exporter.Title(id)))
		} else {
			b.WriteString(a.styles.Item.Render("  " + exporter.Title(id)))
		}
		b.WriteString("\n")
	}

	if problems := a.editor.Problems(); len(problems) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Title.Render("Problems"))
		b.WriteString("\n")
		for _, p := range problems {
			b.WriteString(a.styles.Problem.Render("! " + p.String()))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (a App) describeSelection() string {
	sel := a.editor.Selection()
	switch sel.Kind {
	case editor.SelectPending:
		return a.styles.Item.Render(exporter.Title(sel.Panel) + " (not placed)")
	case editor.SelectPlaced:
		p, _ := a.editor.Placement(sel.Panel)
		text := fmt.Sprintf("%s at row %d, col %d, %dx%d", exporter.Title(sel.Panel), p.Row+1, p.Col+1, p.Width, p.Height)
		if a.visibility.Hidden(sel.Panel) {
			text += ", hidden"
		}
		return a.styles.Item.Render(text)
	default:
		return a.styles.Empty.Render("  none")
	}
}

// renderPalette shows the filter input and the matching available panels.
func (a App) renderPalette() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Panels"))
	b.WriteString("\n")
	b.WriteString(a.palette.Input.View())
	b.WriteString("\n\n")

	if len(a.palette.Matches) == 0 {
		b.WriteString(a.styles.Empty.Render("  no matches"))
		return b.String()
	}

	start, end := layout.CalculateVisibleListItems(a.layoutConfig.Palette.MaxVisible, a.palette.Cursor, len(a.palette.Matches))
	for i := start; i < end; i++ {
		m := a.palette.Matches[i]
		if i == a.palette.Cursor {
			b.WriteString(a.styles.ItemSelected.Render("▸ " + m.Label))
		} else {
			b.WriteString(a.styles.Item.Render("  " + a.highlight(m)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// highlight renders the matched runes of a palette label in the accent style.
func (a App) highlight(m search.SearchResult) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Label
	}
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range m.Label {
		if matched[i] {
			b.WriteString(a.styles.Title.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (a App) renderModal(title, body string) string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	box := a.styles.Modal.Width(width).Render(a.styles.Title.Render(title) + "\n\n" + body)

	modal := lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, box)
	return lipgloss.JoinVertical(lipgloss.Left, modal, a.styles.Help.Render(a.renderHints(a.getContextualHints())))
}
