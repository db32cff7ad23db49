package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Cell         lipgloss.Style // empty grid cell
	CellPlaced   lipgloss.Style // cell covered by a placed panel
	CellSelected lipgloss.Style // cell of the selected panel
	CellHidden   lipgloss.Style // placed panel with a hide override
	CellCursor   lipgloss.Style // outline for the cursor cell
	DropLegal    lipgloss.Style // drag footprint that may be dropped
	DropIllegal  lipgloss.Style // drag footprint that would be rejected
	Sidebar      lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Problem      lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "h/l")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "place", "move")
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	panel := lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}   // placed cell fill
	warn := lipgloss.AdaptiveColor{Light: "#A0522D", Dark: "#D7875F"}    // rejected drop, problems
	dark := lipgloss.Color("#1A1A1A")

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Header: lipgloss.NewStyle().
			Foreground(subtle).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Cell: lipgloss.NewStyle().
			Foreground(subtle).
			Align(lipgloss.Center, lipgloss.Center),

		CellPlaced: lipgloss.NewStyle().
			Foreground(primary).
			Background(panel).
			Align(lipgloss.Center, lipgloss.Center),

		CellSelected: lipgloss.NewStyle().
			Foreground(dark).
			Background(accent).
			Bold(true).
			Align(lipgloss.Center, lipgloss.Center),

		CellHidden: lipgloss.NewStyle().
			Foreground(subtle).
			Background(panel).
			Italic(true).
			Align(lipgloss.Center, lipgloss.Center),

		CellCursor: lipgloss.NewStyle().
			Underline(true).
			Bold(true),

		DropLegal: lipgloss.NewStyle().
			Foreground(dark).
			Background(accent).
			Align(lipgloss.Center, lipgloss.Center),

		DropIllegal: lipgloss.NewStyle().
			Foreground(dark).
			Background(warn).
			Align(lipgloss.Center, lipgloss.Center),

		Sidebar: lipgloss.NewStyle().
			PaddingLeft(2),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(dark),

		Problem: lipgloss.NewStyle().
			Foreground(warn),

		Status: lipgloss.NewStyle().
			Foreground(accent),

		StatusError: lipgloss.NewStyle().
			Foreground(warn).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
