package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/kiosk/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied schema version.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the grid, placement and visibility tables.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS grid (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS placements (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			start_row INTEGER NOT NULL,
			start_col INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS visibility (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			visible INTEGER NOT NULL DEFAULT 1
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds save revisions and the derived enabled map.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		CREATE TABLE IF NOT EXISTS revisions (
			id TEXT PRIMARY KEY NOT NULL,
			saved_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS enabled (
			id TEXT PRIMARY KEY NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 0
		);

		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Load reads the document from the SQLite database.
// Returns an empty document if nothing was saved yet.
func (s *SQLiteStorage) Load(ctx context.Context) (*model.Document, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, Unavailable("load", err)
	}
	return doc, nil
}

func (s *SQLiteStorage) load(ctx context.Context) (*model.Document, error) {
	doc := model.EmptyDocument()

	err := s.db.QueryRowContext(ctx, "SELECT row_count, column_count FROM grid WHERE id = 1").
		Scan(&doc.Rows, &doc.Columns)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_row, start_col, width, height
		FROM placements
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Placement
		if err := rows.Scan(&p.ID, &p.Row, &p.Col, &p.Width, &p.Height); err != nil {
			return nil, err
		}
		doc.Panels = append(doc.Panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, visible
		FROM visibility
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v model.Visibility
		var visible int
		if err := rows.Scan(&v.ID, &visible); err != nil {
			return nil, err
		}
		v.Visible = visible == 1
		doc.ActivePanels = append(doc.ActivePanels, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, enabled FROM enabled")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id model.PanelID
		var enabled int
		if err := rows.Scan(&id, &enabled); err != nil {
			return nil, err
		}
		if doc.PanelsEnabled == nil {
			doc.PanelsEnabled = map[model.PanelID]bool{}
		}
		doc.PanelsEnabled[id] = enabled == 1
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doc.Normalize()
	return doc, nil
}

// Save writes the document to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(ctx context.Context, doc *model.Document) error {
	if err := s.save(ctx, doc); err != nil {
		return Unavailable("save", err)
	}
	return nil
}

func (s *SQLiteStorage) save(ctx context.Context, doc *model.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"placements", "visibility", "enabled", "grid"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO grid (id, row_count, column_count) VALUES (1, ?, ?)",
		doc.Rows, doc.Columns,
	); err != nil {
		return err
	}

	placementStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO placements (position, id, start_row, start_col, width, height)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer placementStmt.Close()

	for i, p := range doc.Panels {
		if _, err := placementStmt.ExecContext(ctx, i, string(p.ID), p.Row, p.Col, p.Width, p.Height); err != nil {
			return err
		}
	}

	visibilityStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO visibility (position, id, visible)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer visibilityStmt.Close()

	for i, v := range doc.ActivePanels {
		visible := 0
		if v.Visible {
			visible = 1
		}
		if _, err := visibilityStmt.ExecContext(ctx, i, string(v.ID), visible); err != nil {
			return err
		}
	}

	enabledStmt, err := tx.PrepareContext(ctx, "INSERT INTO enabled (id, enabled) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer enabledStmt.Close()

	for id, on := range doc.PanelsEnabled {
		enabled := 0
		if on {
			enabled = 1
		}
		if _, err := enabledStmt.ExecContext(ctx, string(id), enabled); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO revisions (id, saved_at) VALUES (?, ?)",
		model.GenerateUUID(), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Revision is one recorded save.
type Revision struct {
	ID      string
	SavedAt time.Time
}

// Revisions returns recorded saves, newest first.
func (s *SQLiteStorage) Revisions(ctx context.Context) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, saved_at FROM revisions ORDER BY rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var savedAt string
		if err := rows.Scan(&r.ID, &savedAt); err != nil {
			return nil, err
		}
		r.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		revs = append(revs, r)
	}
	return revs, rows.Err()
}
