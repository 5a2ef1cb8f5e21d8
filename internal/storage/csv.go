package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/scraper"
)

// Header is the fixed column order of the row store
var Header = []string{
	"Título",
	"Link",
	"Local",
	"Salário",
	"Salário Anunciado",
	"Fonte",
	"Salario_Inf",
	"Salario_Sup",
}

// CSVWriter appends one row per job. The file is reopened for every row so
// whatever was written survives a crash mid-run.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

// Create truncates the file and writes the header row
func (w *CSVWriter) Create() error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrap(err, "storage: create csv directory")
		}
	}
	f, err := os.Create(w.path)
	if err != nil {
		return eris.Wrap(err, "storage: create csv")
	}
	return writeRows(f, Header)
}

// Append writes job as one row at the end of the file
func (w *CSVWriter) Append(job scraper.Job) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return eris.Wrap(err, "storage: open csv for append")
	}
	return writeRows(f, Row(job))
}

func writeRows(f *os.File, rows ...[]string) error {
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return eris.Wrap(err, "storage: write csv")
	}
	return eris.Wrap(f.Close(), "storage: close csv")
}

// Row renders job in Header order
func Row(job scraper.Job) []string {
	return []string{
		job.Title,
		job.Link,
		job.Location,
		job.Salary,
		formatBool(job.SalaryAdvertised),
		job.Source,
		formatFloat(job.SalaryLower),
		formatFloat(job.SalaryUpper),
	}
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// formatFloat always keeps a decimal point: 2000 -> "2000.0", 1234.56 -> "1234.56"
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
