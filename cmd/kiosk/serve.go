package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/dashboard"
	"github.com/nikbrunner/kiosk/internal/exporter"
	"github.com/nikbrunner/kiosk/internal/log"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/server"
	"github.com/nikbrunner/kiosk/internal/storage"
	"github.com/nikbrunner/kiosk/internal/surface"
	"github.com/nikbrunner/kiosk/internal/telemetry"
	"github.com/nikbrunner/kiosk/internal/watcher"
)

const shutdownTimeout = 5 * time.Second

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and the panel configuration API",
	Long: `Serve the dashboard page with the saved layout applied, plus the
/api/panels endpoints the editor's http backend talks to.

With a file backend the layout is reapplied whenever the file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	if cfg.Storage == storage.BackendHTTP {
		return fmt.Errorf("serve needs a local storage backend, not %q", cfg.Storage)
	}
	if cfg.LogFile != "" {
		if err := log.Initialize(cfg.LogFile); err != nil {
			return err
		}
		defer log.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.New(ctx)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.WarningLog.Printf("telemetry shutdown: %v", err)
		}
	}()

	reg := model.DefaultRegistry()
	page, err := loadPage(cfg.DashboardTemplate, reg)
	if err != nil {
		return err
	}

	manager := dashboard.New(dashboard.Params{
		Loader:   s,
		Surface:  page,
		Registry: reg,
		Logger:   log.WarningLog,
		Tracer:   tp.Tracer("kiosk/dashboard"),
	})
	if !manager.Init(ctx) {
		log.WarningLog.Printf("no layout applied, serving the page as is")
	}

	if path := storage.FilePath(s); cfg.WatchEnabled() && path != "" {
		w, err := watcher.New(path, func() {
			refreshCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if manager.Refresh(refreshCtx) {
				log.InfoLog.Printf("layout reloaded from %s", path)
			}
		}, watcher.WithErrorHandler(func(err error) {
			log.ErrorLog.Printf("watch %s: %v", path, err)
		}))
		if err != nil {
			return fmt.Errorf("watch storage: %w", err)
		}
		defer w.Close()
	}

	addr := cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}
	srv := server.New(server.Params{
		Addr:     addr,
		Storage:  s,
		Manager:  manager,
		Page:     page,
		Registry: reg,
		Toggles:  cfg.Toggles(),
		Tracer:   tp.Tracer("kiosk/server"),
		Logger:   log.ErrorLog,
	})
	if err := srv.Start(); err != nil {
		return err
	}
	log.InfoLog.Printf("serving dashboard on %s", srv.Addr())
	fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard on http://%s\n", srv.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// loadPage parses the dashboard template, or the built-in page when none is
// configured.
func loadPage(path string, reg *model.Registry) (*surface.Page, error) {
	if path == "" {
		return surface.ParseString(exporter.DashboardHTML(reg))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dashboard template: %w", err)
	}
	defer f.Close()
	page, err := surface.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return page, nil
}
