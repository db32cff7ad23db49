package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/dashboard"
	"github.com/nikbrunner/kiosk/internal/log"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

var renderTemplate string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the dashboard page with the saved layout applied",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "dashboard HTML template (default from config, then built in)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	tmpl := cfg.DashboardTemplate
	if renderTemplate != "" {
		tmpl = renderTemplate
	}
	reg := model.DefaultRegistry()
	page, err := loadPage(tmpl, reg)
	if err != nil {
		return err
	}

	doc, err := loadDocument(cmd.Context(), s)
	if err != nil {
		return err
	}

	manager := dashboard.New(dashboard.Params{
		Loader:   s,
		Surface:  page,
		Registry: reg,
		Logger:   log.WarningLog,
	})
	report := manager.Use(cmd.Context(), doc)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d placements: %v\n", len(report.Skipped), report.Skipped)
	}
	return page.Render(cmd.OutOrStdout())
}
