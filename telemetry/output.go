package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVWriter appends window rows to a CSV stream, writing the header once.
type CSVWriter struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewCSVWriter writes rows to out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

// CreateCSV creates (or truncates) the file at path and returns a writer for it.
// Returns nil if path is empty (output disabled).
func CreateCSV(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &CSVWriter{out: f, closer: f}, nil
}

// Write appends one row.
func (w *CSVWriter) Write(stats WindowStats) error {
	if w == nil {
		return nil
	}

	records := []WindowStats{stats}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("write telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the writer owns one.
func (w *CSVWriter) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// ReadCSV parses rows previously written by a CSVWriter.
func ReadCSV(in io.Reader) ([]WindowStats, error) {
	var rows []WindowStats
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("read telemetry: %w", err)
	}
	return rows, nil
}
