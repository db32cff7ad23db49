package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// Picker is a small TUI for choosing one panel out of search results.
type Picker struct {
	results   []search.SearchResult
	header    string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over results. The header is shown above the list.
func New(results []search.SearchResult, header string) Picker {
	return Picker{
		results: results,
		header:  header,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) == 0 {
				return p, nil
			}
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown:
			p.down()
			return p, nil

		case tea.KeyUp:
			p.up()
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.down()
			case "k":
				p.up()
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) down() {
	if p.cursor < len(p.results)-1 {
		p.cursor++
	}
}

func (p *Picker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d panels)", p.header, len(p.results))))
	b.WriteString("\n\n")

	if len(p.results) == 0 {
		b.WriteString(labelStyle.Render("  no panel available"))
		b.WriteString("\n")
	}

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, style.Render(exporter.Title(result.Panel))))
		b.WriteString(fmt.Sprintf("   %s\n", labelStyle.Render(result.Label)))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  Enter: place  q/Esc: cancel"))

	return b.String()
}

// Selected returns the chosen panel. ok is false when the picker was
// cancelled or nothing was chosen.
func (p Picker) Selected() (id model.PanelID, ok bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return "", false
	}
	return p.results[p.cursor].Panel, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
