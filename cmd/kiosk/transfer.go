package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/importer"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

var (
	exportFormat string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the saved layout to a file",
	Long: `Write the saved panel configuration to a file. Use "-" for stdout.

Without a path the layout goes to ~/Downloads/kiosk-layout-YYYY-MM-DD.json
(or .yaml with --format yaml).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the saved layout with one read from a file",
	Long: `Read a panel configuration from a JSON or YAML file, or recover the
layout from a dashboard HTML page, and save it.

Problems such as overlapping or unknown panels are reported; the
dashboard skips those placements until they are fixed or pruned.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format: json or yaml (default from file extension)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report problems without saving")
}

func runExport(cmd *cobra.Command, args []string) error {
	_, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	doc, err := loadDocument(cmd.Context(), s)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	format := exporter.FormatForPath(path)
	if exportFormat != "" {
		if format, err = exporter.ParseFormat(exportFormat); err != nil {
			return err
		}
	}

	if path == "-" {
		return exporter.WriteDocument(cmd.OutOrStdout(), doc, format)
	}
	if path == "" {
		if path, err = exporter.DefaultExportPath(format); err != nil {
			return fmt.Errorf("export path: %w", err)
		}
	}
	if exportFormat != "" && exporter.FormatForPath(path) != format {
		return fmt.Errorf("format %s does not match the extension of %s", format, path)
	}

	if err := exporter.ExportFile(path, doc); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d panels to %s\n", len(doc.Panels), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reg := model.DefaultRegistry()
	var res *importer.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		doc, err := importer.ParseDashboardHTML(f, reg)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		res = &importer.Result{Document: doc, Problems: importer.Validate(doc, reg)}
	default:
		if res, err = importer.Import(f, reg); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Read %d panels on a %dx%d grid\n", len(res.Document.Panels), res.Document.Rows, res.Document.Columns)
	for _, p := range res.Problems {
		fmt.Fprintf(out, "  ! %s\n", p)
	}
	if importDryRun {
		return nil
	}

	_, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	if err := s.Save(cmd.Context(), res.Document); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	fmt.Fprintln(out, "Saved")
	return nil
}
