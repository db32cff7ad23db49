package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	InfoLog    = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog   = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

var logFile *os.File

// DefaultPath is the log file used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "kiosk.log")
}

// Initialize sends all loggers to the file at path, DefaultPath when empty.
// The terminal editor owns the screen, so it must call this before starting.
func Initialize(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	Close()
	logFile = f
	SetOutput(f)
	return nil
}

// SetOutput redirects all loggers.
func SetOutput(w io.Writer) {
	InfoLog.SetOutput(w)
	WarningLog.SetOutput(w)
	ErrorLog.SetOutput(w)
}

// Close closes the log file, if one is open, and falls back to stderr.
func Close() {
	if logFile == nil {
		return
	}
	SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}
