package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/scraper"
)

// JSONExporter writes the whole collection as one indented JSON array
type JSONExporter struct {
	path string
}

func NewJSONExporter(path string) *JSONExporter {
	return &JSONExporter{path: path}
}

func (e *JSONExporter) Path() string {
	return e.path
}

// Export overwrites the file with jobs. Same input, same bytes.
func (e *JSONExporter) Export(jobs []scraper.Job) error {
	data, err := Marshal(jobs)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrap(err, "storage: create json directory")
		}
	}
	if err := os.WriteFile(e.path, data, 0644); err != nil {
		return eris.Wrap(err, "storage: write json")
	}
	return nil
}

// Marshal encodes jobs with 4-space indentation, leaving non-ASCII text and
// HTML characters unescaped. A nil slice is written as [].
func Marshal(jobs []scraper.Job) ([]byte, error) {
	if jobs == nil {
		jobs = []scraper.Job{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(jobs); err != nil {
		return nil, eris.Wrap(err, "storage: marshal jobs")
	}
	//Encode adds a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
