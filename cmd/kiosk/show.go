package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/importer"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

const showCellWidth = 12

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved layout as a grid",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	_, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	doc, err := loadDocument(cmd.Context(), s)
	if err != nil {
		return err
	}
	writeGrid(cmd.OutOrStdout(), doc)
	return nil
}

// writeGrid prints one line per grid row. Every covered cell shows its
// occupant; hidden panels are marked with parentheses.
func writeGrid(w io.Writer, doc *model.Document) {
	fmt.Fprintf(w, "%dx%d grid, %d panels\n", doc.Rows, doc.Columns, len(doc.Panels))

	border := "+" + strings.Repeat(strings.Repeat("-", showCellWidth)+"+", doc.Columns)
	fmt.Fprintln(w, border)
	for r := 0; r < doc.Rows; r++ {
		var b strings.Builder
		b.WriteString("|")
		for c := 0; c < doc.Columns; c++ {
			label := "."
			if id, ok := doc.OccupantAt(r, c); ok {
				label = string(id)
				if doc.Hidden(id) {
					label = "(" + label + ")"
				}
			}
			if len(label) > showCellWidth-2 {
				label = label[:showCellWidth-2]
			}
			fmt.Fprintf(&b, " %-*s |", showCellWidth-2, label)
		}
		fmt.Fprintln(w, b.String())
		fmt.Fprintln(w, border)
	}

	problems := importer.Validate(doc, model.DefaultRegistry())
	if len(problems) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d problems:\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(w, "  ! %s\n", p)
	}
}
