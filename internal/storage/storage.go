package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Storage defines the interface for persisting the panel configuration.
type Storage interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}

// Unavailable wraps a backend failure so callers can match
// model.ErrPersistenceUnavailable.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrPersistenceUnavailable, err)
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the document from the JSON file.
// Returns an empty document if the file doesn't exist.
func (s *JSONStorage) Load(ctx context.Context) (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.EmptyDocument(), nil
		}
		return nil, Unavailable("load", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Unavailable("load", err)
	}
	return &doc, nil
}

// Save writes the document to the JSON file.
// The file is replaced atomically; the directory is created if needed.
func (s *JSONStorage) Save(ctx context.Context, doc *model.Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Unavailable("save", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Unavailable("save", err)
	}

	tmp, err := os.CreateTemp(dir, ".panels-*.json")
	if err != nil {
		return Unavailable("save", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Unavailable("save", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return Unavailable("save", err)
	}
	if err := tmp.Close(); err != nil {
		return Unavailable("save", err)
	}
	return Unavailable("save", os.Rename(tmp.Name(), s.path))
}

// DefaultDataDir returns the default data directory: ~/.config/kiosk
// ($XDG_CONFIG_HOME/kiosk when set).
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kiosk"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kiosk"), nil
}

// JSONPath returns the panels.json path inside a data directory.
func JSONPath(dataDir string) string {
	return filepath.Join(dataDir, "panels.json")
}

// SQLitePath returns the database path inside a data directory.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "panels.db")
}

// Open opens the backend selected by the config.
// With backend "auto", SQLite is preferred when its database file exists.
func Open(cfg *Config) (Storage, error) {
	switch cfg.Storage {
	case BackendJSON:
		return NewJSONStorage(JSONPath(cfg.DataDir)), nil
	case BackendSQLite:
		return NewSQLiteStorage(SQLitePath(cfg.DataDir))
	case BackendHTTP:
		return NewHTTPStorage(cfg.Remote, nil)
	case BackendAuto, "":
		if _, err := os.Stat(SQLitePath(cfg.DataDir)); err == nil {
			return NewSQLiteStorage(SQLitePath(cfg.DataDir))
		}
		return NewJSONStorage(JSONPath(cfg.DataDir)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// FilePath returns the local file backing s, "" for remote storage.
func FilePath(s Storage) string {
	switch st := s.(type) {
	case *JSONStorage:
		return st.Path()
	case *SQLiteStorage:
		return st.Path()
	default:
		return ""
	}
}

// Close releases resources held by s, if any.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
