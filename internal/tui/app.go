package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/kiosk/internal/editor"
	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/search"
	"github.com/nikbrunner/kiosk/internal/storage"
	"github.com/nikbrunner/kiosk/internal/tui/layout"
)

// Logger is the subset of *log.Logger the editor writes to.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// App is the main bubbletea model for the grid layout editor.
type App struct {
	editor  *editor.Editor
	unsaved *editor.UnsavedFlag
	session *editor.Session
	storage storage.Storage

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	help         help.Model
	clipboard    ClipboardWriter
	export       func(*model.Document) (string, error)
	logger       Logger

	mode       Mode
	cursor     model.Cell
	palette    PaletteState
	visibility *VisibilityState
	status     Status

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	// Storage is the persistence backend. Without one the editor starts on
	// Layout and cannot save.
	Storage  storage.Storage
	Registry *model.Registry
	Toggles  model.Enablement
	Layout   *model.Layout

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Clipboard    ClipboardWriter      // optional, uses the system clipboard
	// Export writes a document to a file and returns its path. Optional,
	// defaults to a dated JSON file in ~/Downloads.
	Export func(*model.Document) (string, error)
	Logger Logger
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	unsaved := &editor.UnsavedFlag{}
	ed := editor.New(editor.Params{
		Registry:   params.Registry,
		Enablement: params.Toggles,
		Tracker:    unsaved,
		Layout:     params.Layout,
	})

	app := App{
		editor:       ed,
		unsaved:      unsaved,
		session:      &editor.Session{},
		storage:      params.Storage,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		help:         help.New(),
		clipboard:    params.Clipboard,
		export:       params.Export,
		logger:       params.Logger,
		palette:      NewPaletteState(layoutCfg),
		visibility:   &VisibilityState{},
		width:        80,
		height:       24,
	}
	if app.clipboard == nil {
		app.clipboard = SystemClipboard
	}
	if app.export == nil {
		app.export = exportToDownloads
	}
	if app.logger == nil {
		app.logger = discardLogger{}
	}
	return app
}

func exportToDownloads(doc *model.Document) (string, error) {
	path, err := exporter.DefaultExportPath(exporter.FormatJSON)
	if err != nil {
		return "", err
	}
	return path, exporter.ExportFile(path, doc)
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Editor returns the layout editor.
func (a App) Editor() *editor.Editor {
	return a.editor
}

// Cursor returns the cursor cell (0-indexed).
func (a App) Cursor() model.Cell {
	return a.cursor
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Status returns the current status line.
func (a App) Status() Status {
	return a.status
}

// Dirty reports whether there are unsaved changes.
func (a App) Dirty() bool {
	return a.unsaved.IsSet()
}

// Busy reports whether a load or save is outstanding.
func (a App) Busy() bool {
	return a.session.InFlight()
}

// Document builds the document that a save would write.
func (a App) Document() *model.Document {
	return model.NewDocument(a.editor.ExportLayout(), a.visibility.List(), a.editor.Registry(), a.editor.Enablement())
}

// Init implements tea.Model. It starts loading the stored layout.
func (a App) Init() tea.Cmd {
	if a.storage == nil {
		return nil
	}
	t, err := a.session.Begin()
	if err != nil {
		return nil
	}
	return loadLayoutCmd(a.storage, t)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case LayoutLoadedMsg:
		return a.handleLoaded(msg), nil

	case LayoutSavedMsg:
		return a.handleSaved(msg), nil

	case ExportedMsg:
		if msg.Err != nil {
			a.setError(fmt.Errorf("export failed: %w", msg.Err))
		} else {
			a.setStatus("exported to " + msg.Path)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		switch a.mode {
		case ModePalette:
			return a.updatePalette(msg)
		case ModeDrag:
			return a.updateDrag(msg), nil
		case ModeConfirmQuit:
			return a.updateConfirmQuit(msg)
		case ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Cancel, a.keys.Quit) {
				a.mode = ModeNormal
			}
			return a, nil
		default:
			return a.updateNormal(msg)
		}
	}

	// Cursor blink and similar input messages
	if a.mode == ModePalette {
		var cmd tea.Cmd
		a.palette.Input, cmd = a.palette.Input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleLoaded(msg LayoutLoadedMsg) App {
	if !a.session.Finish(msg.Ticket) {
		a.logger.Printf("tui: discarding stale load %s", msg.Ticket.ID)
		return a
	}
	if msg.Err != nil {
		a.logger.Printf("tui: load layout: %v", msg.Err)
		a.setError(fmt.Errorf("load failed, keeping current layout: %w", msg.Err))
		return a
	}

	doc := msg.Doc
	if doc == nil {
		doc = model.EmptyDocument()
	}
	doc.Normalize()
	a.editor.ImportLayout(doc.Layout)
	a.visibility.Replace(doc.ActivePanels)
	a.unsaved.Clear()
	a.clampCursor()

	text := fmt.Sprintf("loaded %d panels on a %dx%d grid", len(doc.Panels), doc.Rows, doc.Columns)
	if n := len(a.editor.Problems()); n > 0 {
		text += fmt.Sprintf(", %d invalid (P to prune)", n)
	}
	a.setStatus(text)
	return a
}

func (a App) handleSaved(msg LayoutSavedMsg) App {
	fresh := a.session.Finish(msg.Ticket)
	if msg.Err != nil {
		a.logger.Printf("tui: save layout: %v", msg.Err)
		a.setError(fmt.Errorf("save failed (press s to retry): %w", msg.Err))
		return a
	}
	// Edits made while the save was in flight stay unsaved.
	if fresh && a.editor.ExportLayout().Equal(msg.Saved) && a.visibility.Equal(msg.Visibility) {
		a.unsaved.Clear()
	}
	a.setStatus("saved")
	return a
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = Status{}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.unsaved.IsSet() {
			a.mode = ModeConfirmQuit
			return a, nil
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1, 0)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1, 0)
	case key.Matches(msg, a.keys.Left):
		a.moveCursor(0, -1)
	case key.Matches(msg, a.keys.Right):
		a.moveCursor(0, 1)

	case key.Matches(msg, a.keys.Cancel):
		a.editor.ClearSelection()

	case key.Matches(msg, a.keys.Select):
		return a.selectAtCursor()

	case key.Matches(msg, a.keys.Palette):
		return a.openPalette()

	case key.Matches(msg, a.keys.Drag):
		a.beginDrag()

	case key.Matches(msg, a.keys.Remove):
		a.removeTarget()

	case key.Matches(msg, a.keys.ToggleShow):
		a.toggleVisibility()

	case key.Matches(msg, a.keys.Wider):
		a.resizeSelected(1, 0)
	case key.Matches(msg, a.keys.Narrower):
		a.resizeSelected(-1, 0)
	case key.Matches(msg, a.keys.Taller):
		a.resizeSelected(0, 1)
	case key.Matches(msg, a.keys.Shorter):
		a.resizeSelected(0, -1)

	case key.Matches(msg, a.keys.AddRow):
		a.setGridSize(a.editor.Rows()+1, a.editor.Columns())
	case key.Matches(msg, a.keys.RemoveRow):
		a.setGridSize(a.editor.Rows()-1, a.editor.Columns())
	case key.Matches(msg, a.keys.AddColumn):
		a.setGridSize(a.editor.Rows(), a.editor.Columns()+1)
	case key.Matches(msg, a.keys.RemoveCol):
		a.setGridSize(a.editor.Rows(), a.editor.Columns()-1)

	case key.Matches(msg, a.keys.Prune):
		removed := a.editor.Prune()
		if len(removed) == 0 {
			a.setStatus("nothing to prune")
		} else {
			for _, id := range removed {
				a.visibility.Drop(id)
			}
			a.setStatus("pruned " + joinIDs(removed))
		}

	case key.Matches(msg, a.keys.Reset):
		a.editor.Reset()
		a.visibility.Replace(nil)
		a.session.Invalidate()
		a.cursor = model.Cell{}
		a.setStatus("layout reset")

	case key.Matches(msg, a.keys.Save):
		return a.save()

	case key.Matches(msg, a.keys.Reload):
		return a.reload()

	case key.Matches(msg, a.keys.Yank):
		a.yank()

	case key.Matches(msg, a.keys.Export):
		return a, exportCmd(a.export, a.Document())
	}

	return a, nil
}

func (a *App) moveCursor(dRow, dCol int) {
	a.cursor.Row += dRow
	a.cursor.Col += dCol
	a.clampCursor()
}

func (a *App) clampCursor() {
	a.cursor.Row = clampIndex(a.cursor.Row, a.editor.Rows())
	a.cursor.Col = clampIndex(a.cursor.Col, a.editor.Columns())
}

func clampIndex(v, n int) int {
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// selectAtCursor selects the panel under the cursor, or places the pending
// panel on an empty cell. An empty cell with nothing pending opens the palette.
func (a App) selectAtCursor() (tea.Model, tea.Cmd) {
	if id, ok := a.editor.OccupantAt(a.cursor.Row, a.cursor.Col); ok {
		if err := a.editor.SelectPlaced(id); err != nil {
			a.setError(err)
		}
		return a, nil
	}

	if a.editor.Selection().Kind != editor.SelectPending {
		return a.openPalette()
	}
	p, err := a.editor.PlaceAt(a.cursor.Row, a.cursor.Col)
	if err != nil {
		a.setError(err)
		return a, nil
	}
	a.setStatus(fmt.Sprintf("placed %s at row %d, col %d", p.ID, p.Row+1, p.Col+1))
	return a, nil
}

// target is the selected placed panel, else the panel under the cursor.
func (a App) target() (model.PanelID, bool) {
	if sel := a.editor.Selection(); sel.Kind == editor.SelectPlaced {
		return sel.Panel, true
	}
	return a.editor.OccupantAt(a.cursor.Row, a.cursor.Col)
}

func (a *App) beginDrag() {
	var id model.PanelID
	ok := false
	if sel := a.editor.Selection(); sel.Kind == editor.SelectPending {
		id, ok = sel.Panel, true
	} else {
		id, ok = a.target()
	}
	if !ok {
		a.setError(errors.New("nothing to drag: select a panel first"))
		return
	}
	if err := a.editor.BeginDrag(id); err != nil {
		a.setError(err)
		return
	}
	a.mode = ModeDrag
	a.editor.DragOver(a.cursor.Row, a.cursor.Col)
}

func (a App) updateDrag(msg tea.KeyMsg) App {
	a.status = Status{}

	switch {
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1, 0)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1, 0)
	case key.Matches(msg, a.keys.Left):
		a.moveCursor(0, -1)
	case key.Matches(msg, a.keys.Right):
		a.moveCursor(0, 1)

	case key.Matches(msg, a.keys.Cancel, a.keys.Quit):
		a.editor.CancelDrag()
		a.mode = ModeNormal
		a.setStatus("drag cancelled")
		return a

	case key.Matches(msg, a.keys.Select, a.keys.Drag):
		id := a.editor.Drag().Panel
		a.mode = ModeNormal
		if err := a.editor.Drop(a.cursor.Row, a.cursor.Col); err != nil {
			a.setError(err)
			return a
		}
		a.setStatus(fmt.Sprintf("dropped %s at row %d, col %d", id, a.cursor.Row+1, a.cursor.Col+1))
		return a

	default:
		return a
	}

	a.editor.DragOver(a.cursor.Row, a.cursor.Col)
	return a
}

func (a *App) removeTarget() {
	id, ok := a.target()
	if !ok {
		a.setError(&model.PlacementError{Op: "remove", Row: a.cursor.Row, Col: a.cursor.Col, Err: model.ErrNotPlaced})
		return
	}
	a.editor.Remove(id)
	a.visibility.Drop(id)
	a.setStatus("removed " + string(id))
}

func (a *App) toggleVisibility() {
	id, ok := a.target()
	if !ok {
		a.setError(&model.PlacementError{Op: "hide", Row: a.cursor.Row, Col: a.cursor.Col, Err: model.ErrNotPlaced})
		return
	}
	hidden := !a.visibility.Hidden(id)
	a.visibility.Set(id, !hidden)
	a.unsaved.MarkDirty()
	if hidden {
		a.setStatus(string(id) + " hidden on the dashboard")
	} else {
		a.setStatus(string(id) + " shown on the dashboard")
	}
}

func (a *App) resizeSelected(dw, dh int) {
	sel := a.editor.Selection()
	if sel.Kind != editor.SelectPlaced {
		a.setError(&model.PlacementError{Op: "resize", Err: model.ErrNoSelection})
		return
	}
	p, _ := a.editor.Placement(sel.Panel)
	if err := a.editor.Resize(sel.Panel, p.Width+dw, p.Height+dh); err != nil {
		a.setError(err)
	}
}

func (a *App) setGridSize(rows, cols int) {
	if err := a.editor.SetGridSize(rows, cols); err != nil {
		a.setError(err)
		return
	}
	a.clampCursor()
	text := fmt.Sprintf("grid %dx%d", rows, cols)
	if n := len(a.editor.Problems()); n > 0 {
		text += fmt.Sprintf(", %d invalid (P to prune)", n)
	}
	a.setStatus(text)
}

func (a App) save() (tea.Model, tea.Cmd) {
	if a.storage == nil {
		a.setError(fmt.Errorf("save: %w", model.ErrPersistenceUnavailable))
		return a, nil
	}
	t, err := a.session.Begin()
	if err != nil {
		a.setError(err)
		return a, nil
	}
	a.setStatus("saving...")
	return a, saveLayoutCmd(a.storage, t, a.Document())
}

func (a App) reload() (tea.Model, tea.Cmd) {
	if a.storage == nil {
		a.setError(fmt.Errorf("reload: %w", model.ErrPersistenceUnavailable))
		return a, nil
	}
	if a.session.InFlight() {
		a.setError(editor.ErrRequestInFlight)
		return a, nil
	}
	a.session.Invalidate()
	t, err := a.session.Begin()
	if err != nil {
		a.setError(err)
		return a, nil
	}
	a.setStatus("loading...")
	return a, loadLayoutCmd(a.storage, t)
}

func (a *App) yank() {
	data, err := json.MarshalIndent(a.Document(), "", "  ")
	if err != nil {
		a.setError(err)
		return
	}
	if err := a.clipboard(string(data)); err != nil {
		a.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	a.setStatus("layout JSON copied to clipboard")
}

func (a App) openPalette() (tea.Model, tea.Cmd) {
	a.palette.Reset()
	a.refreshPalette()
	a.mode = ModePalette
	cmd := a.palette.Input.Focus()
	return a, cmd
}

func (a *App) refreshPalette() {
	r := a.editor.Registry()
	a.palette.Matches = search.FuzzyFilterPanels(r, a.editor.AvailablePanels(), a.palette.Input.Value())
	if a.palette.Cursor >= len(a.palette.Matches) {
		a.palette.Cursor = len(a.palette.Matches) - 1
	}
	if a.palette.Cursor < 0 {
		a.palette.Cursor = 0
	}
}

func (a App) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.palette.Input.Blur()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		id, ok := a.palette.Current()
		a.palette.Input.Blur()
		a.mode = ModeNormal
		if !ok {
			a.setStatus("no panel available")
			return a, nil
		}
		if err := a.editor.SelectForPlacement(id); err != nil {
			a.setError(err)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("%s ready: move to a cell and press enter, or m to drag", id))
		return a, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if a.palette.Cursor > 0 {
			a.palette.Cursor--
		}
		return a, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if a.palette.Cursor < len(a.palette.Matches)-1 {
			a.palette.Cursor++
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.palette.Input, cmd = a.palette.Input.Update(msg)
	a.palette.Cursor = 0
	a.refreshPalette()
	return a, cmd
}

func (a App) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "q":
		return a, tea.Quit
	case "n", "esc":
		a.mode = ModeNormal
	}
	return a, nil
}

func (a *App) setStatus(text string) {
	a.status = Status{Text: text}
}

func (a *App) setError(err error) {
	a.status = Status{Text: err.Error(), Error: true}
}

func joinIDs(ids []model.PanelID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
