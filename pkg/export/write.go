package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Render encodes data in the format named by ext (".csv" or ".pdf").
func Render(ext string, data Dataset) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return NewCSVExporter().Render(data)
	case ".pdf":
		return NewPDFExporter().Render(data)
	default:
		return nil, fmt.Errorf("export: unsupported format %q, use .csv or .pdf", ext)
	}
}

// WriteFile renders data in the format implied by path's extension and
// writes it, creating parent directories as needed.
func WriteFile(path string, data Dataset) error {
	out, err := Render(filepath.Ext(path), data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("export: create directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
