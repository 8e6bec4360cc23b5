package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"zillow-scraper/utils"
)

// JSONWriter serializes a document (record collection or run statistics) to
// an indented JSON file.
type JSONWriter struct {
	path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

func (w *JSONWriter) Write(v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json write error: %w", err)
	}

	utils.Success("Saved %s", w.path)
	return nil
}
