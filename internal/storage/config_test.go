package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk", "config.toml")

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.Listen, ":8080")
	assert.Equal(t, cfg.Storage, storage.BackendAuto)
	assert.Assert(t, cfg.WatchEnabled())
	assert.Assert(t, cfg.Toggles().Enabled(model.Weather))

	_, err = os.Stat(path)
	assert.NilError(t, err, "config file should be written")
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
storage = "sqlite"
watch = false

[features]
weather = true
markets = false
`
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.Storage, storage.BackendSQLite)
	assert.Equal(t, cfg.Listen, ":8080")
	assert.Assert(t, cfg.DataDir != "")
	assert.Assert(t, !cfg.WatchEnabled())

	toggles := cfg.Toggles()
	assert.Assert(t, toggles.Enabled(model.Weather))
	assert.Assert(t, !toggles.Enabled(model.Markets))
	assert.Assert(t, !toggles.Enabled("news"), "features absent from the table are off")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NilError(t, os.WriteFile(path, []byte(`listen = ":9000"`), 0644))
	t.Setenv("KIOSK_LISTEN", "127.0.0.1:7000")
	t.Setenv("KIOSK_STORAGE", "http")

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.Listen, "127.0.0.1:7000")
	assert.Equal(t, cfg.Storage, storage.BackendHTTP)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NilError(t, os.WriteFile(path, []byte("listen = "), 0644))

	_, err := storage.LoadConfig(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := storage.DefaultConfig()
	cfg.Remote = "http://kiosk.local:8080"
	cfg.Features = map[string]bool{"news": true}

	assert.NilError(t, storage.SaveConfig(path, &cfg))

	loaded, err := storage.LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, loaded.Remote, cfg.Remote)
	assert.DeepEqual(t, loaded.Features, cfg.Features)
}
