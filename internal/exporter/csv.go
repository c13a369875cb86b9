package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes exported tables below an output directory
type CSVWriter struct {
	dir    string
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter creates a writer rooted at dir. Files get a UTF-8 BOM.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{
		dir:    dir,
		bom:    true,
		logger: slog.Default().With(slog.String("component", "exporter")),
	}
}

// WithoutBOM disables the UTF-8 byte order mark
func (w *CSVWriter) WithoutBOM() *CSVWriter {
	w.bom = false
	return w
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	file, err := w.create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := encodeCSV(file, options); err != nil {
		return err
	}
	return file.Close()
}

// WriteTable writes table in format f and returns the full path
func (w *CSVWriter) WriteTable(table Table, f Format) (string, error) {
	name := table.FileName(f)
	if f == FormatCSV {
		err := w.WriteCSV(name, WriteOptions{
			Headers:   table.Headers,
			Records:   table.Records(),
			BOMPrefix: w.bom,
		})
		return w.resolvePath(name), err
	}

	fullPath := w.resolvePath(name)
	w.logger.Info("Writing XLSX file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(table.Rows)))

	file, err := w.create(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteXLSX(file, table); err != nil {
		return "", err
	}
	return fullPath, file.Close()
}

// WriteCSVTo streams table as CSV to out
func WriteCSVTo(out io.Writer, table Table, bom bool) error {
	return encodeCSV(out, WriteOptions{
		Headers:   table.Headers,
		Records:   table.Records(),
		BOMPrefix: bom,
	})
}

// EncodeCSV returns table as CSV bytes
func EncodeCSV(table Table, bom bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSVTo(&buf, table, bom); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCSV(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (w *CSVWriter) create(fullPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// resolvePath resolves a path against the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.dir, filePath)
}
