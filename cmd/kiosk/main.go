package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/log"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
	"github.com/nikbrunner/kiosk/internal/tui"
)

var (
	configPath  string
	storageName string
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Design and serve the kiosk dashboard grid",
	Long: `kiosk edits the panel layout of the kiosk dashboard.

Run without arguments to open the grid editor. The other commands place
panels from the shell, move layouts between files and serve the
dashboard with the saved layout applied.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/kiosk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storageName, "storage", "", "storage backend: auto, json, sqlite or http")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*storage.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = storage.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
	}
	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if storageName != "" {
		cfg.Storage = storageName
	}
	return cfg, nil
}

// openStorage loads the config and opens its backend. Callers close the
// storage with storage.Close.
func openStorage() (*storage.Config, storage.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return cfg, s, nil
}

// loadDocument reads the saved document, an empty one when nothing is saved.
func loadDocument(ctx context.Context, s storage.Storage) (*model.Document, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return model.EmptyDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, s, err := openStorage()
	if err != nil {
		return err
	}
	defer storage.Close(s)

	// The editor owns the terminal, so logs go to a file.
	if err := log.Initialize(cfg.LogFile); err != nil {
		return err
	}
	defer log.Close()

	app := tui.NewApp(tui.AppParams{
		Storage:  s,
		Registry: model.DefaultRegistry(),
		Toggles:  cfg.Toggles(),
		Logger:   log.InfoLog,
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Dirty() {
		fmt.Fprintln(os.Stderr, "quit with unsaved changes")
	}
	return nil
}
