package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatForPath picks the format from a file extension, JSON by default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/kiosk-layout-YYYY-MM-DD.json
func DefaultExportPath(f Format) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	ext := "json"
	if f == FormatYAML {
		ext = "yaml"
	}
	filename := fmt.Sprintf("kiosk-layout-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// WriteDocument serializes the document in the given format.
func WriteDocument(w io.Writer, doc *model.Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

// ExportFile writes the document to path, creating the directory.
func ExportFile(path string, doc *model.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDocument(f, doc, FormatForPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
