package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the layout editor.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Palette    key.Binding
	Drag       key.Binding
	Cancel     key.Binding
	Remove     key.Binding
	ToggleShow key.Binding
	Wider      key.Binding
	Narrower   key.Binding
	Taller     key.Binding
	Shorter    key.Binding
	AddRow     key.Binding
	RemoveRow  key.Binding
	AddColumn  key.Binding
	RemoveCol  key.Binding
	Prune      key.Binding
	Reset      key.Binding
	Save       key.Binding
	Reload     key.Binding
	Yank       key.Binding
	Export     key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "cursor right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "place/select/drop"),
		),
		Palette: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "panel palette"),
		),
		Drag: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "drag panel"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "remove panel"),
		),
		ToggleShow: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show/hide panel"),
		),
		Wider: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "wider"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "narrower"),
		),
		Taller: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "taller"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "shorter"),
		),
		AddRow: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "add row"),
		),
		RemoveRow: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "remove row"),
		),
		AddColumn: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "add column"),
		),
		RemoveCol: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "remove column"),
		),
		Prune: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "prune invalid"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset layout"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank JSON"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export file"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit now"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Select, k.Drag, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Cancel},
		{k.Palette, k.Drag, k.Remove, k.ToggleShow, k.Wider, k.Narrower, k.Taller, k.Shorter},
		{k.AddRow, k.RemoveRow, k.AddColumn, k.RemoveCol, k.Prune, k.Reset},
		{k.Save, k.Reload, k.Yank, k.Export, k.Help, k.Quit},
	}
}
