package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/editor"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/picker"
	"github.com/nikbrunner/kiosk/internal/search"
	"github.com/nikbrunner/kiosk/internal/storage"
)

var placeCmd = &cobra.Command{
	Use:   "place ROW COL [query...]",
	Short: "Place an available panel at a grid cell",
	Long: `Place an available panel with its origin at ROW, COL (1-indexed).

The query is fuzzy matched against the panels not on the grid. A single
match is placed directly; several open a picker.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	row, err := parseCell("row", args[0])
	if err != nil {
		return err
	}
	col, err := parseCell("column", args[1])
	if err != nil {
		return err
	}
	query := strings.Join(args[2:], " ")

	cfg, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	ctx := cmd.Context()
	doc, err := loadDocument(ctx, s)
	if err != nil {
		return err
	}

	reg := model.DefaultRegistry()
	toggles := cfg.Toggles()
	ed := editor.New(editor.Params{Registry: reg, Enablement: toggles, Layout: &doc.Layout})

	results := search.FuzzyFilterPanels(reg, ed.AvailablePanels(), query)
	var id model.PanelID
	switch len(results) {
	case 0:
		return fmt.Errorf("no available panel matches %q", query)
	case 1:
		id = results[0].Panel
	default:
		var ok bool
		id, ok, err = pickPanel(results)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := ed.SelectForPlacement(id); err != nil {
		return err
	}
	p, err := ed.PlaceAt(row, col)
	if err != nil {
		return err
	}

	if err := s.Save(ctx, model.NewDocument(ed.ExportLayout(), doc.ActivePanels, reg, toggles)); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Placed %s at row %d, col %d\n", id, p.Row+1, p.Col+1)
	return nil
}

// pickPanel lets the user choose among several matches.
func pickPanel(results []search.SearchResult) (model.PanelID, bool, error) {
	final, err := tea.NewProgram(picker.New(results, "Place panel")).Run()
	if err != nil {
		return "", false, fmt.Errorf("run picker: %w", err)
	}
	p, ok := final.(picker.Picker)
	if !ok || p.Cancelled() {
		return "", false, nil
	}
	id, ok := p.Selected()
	return id, ok, nil
}

// parseCell converts a 1-indexed cell argument to a 0-indexed coordinate.
func parseCell(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: want a number from 1", name, arg)
	}
	return n - 1, nil
}
