package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/kiosk/internal/editor"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

// requestTimeout bounds one load or save.
const requestTimeout = 15 * time.Second

// LayoutLoadedMsg carries the result of a load request.
type LayoutLoadedMsg struct {
	Ticket editor.Ticket
	Doc    *model.Document
	Err    error
}

// LayoutSavedMsg carries the result of a save request.
type LayoutSavedMsg struct {
	Ticket editor.Ticket
	// Saved and Visibility are what was written.
	Saved      model.Layout
	Visibility []model.Visibility
	Err        error
}

// ExportedMsg reports a finished file export.
type ExportedMsg struct {
	Path string
	Err  error
}

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(text string) error

// SystemClipboard writes through the OS clipboard.
func SystemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

func loadLayoutCmd(s storage.Storage, t editor.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		doc, err := s.Load(ctx)
		return LayoutLoadedMsg{Ticket: t, Doc: doc, Err: err}
	}
}

func saveLayoutCmd(s storage.Storage, t editor.Ticket, doc *model.Document) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := s.Save(ctx, doc)
		return LayoutSavedMsg{Ticket: t, Saved: doc.Layout, Visibility: doc.ActivePanels, Err: err}
	}
}

func exportCmd(export func(*model.Document) (string, error), doc *model.Document) tea.Cmd {
	return func() tea.Msg {
		path, err := export(doc)
		return ExportedMsg{Path: path, Err: err}
	}
}
