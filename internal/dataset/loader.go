package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "rn518panel/internal/errors"
	"rn518panel/internal/indicators"
)

// Dataset is a loaded indicator table
type Dataset struct {
	Records  []indicators.Record
	Flagged  indicators.EntitySet
	Columns  []string
	Source   string
	LoadedAt time.Time
	Skipped  int
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Loader reads dataset files
type Loader struct {
	logger      *slog.Logger
	sheet       string
	flaggedPath string
	now         func() time.Time
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger used for load diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSheet selects the XLSX sheet to read instead of the first one
func WithSheet(name string) Option {
	return func(l *Loader) { l.sheet = name }
}

// WithFlaggedList adds the ids listed in path to the flagged allow-list
func WithFlaggedList(path string) Option {
	return func(l *Loader) { l.flaggedPath = path }
}

// NewLoader creates a dataset loader
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("component", "dataset_loader"))
	return l
}

// Load reads the dataset at path. The format is chosen by file extension.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset file %s", path))
		}
		return nil, apperrors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	var ds *Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		ds, err = l.ReadXLSX(ctx, f, path)
	case ".csv", ".txt":
		ds, err = l.ReadCSV(ctx, f, path)
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)))
	}
	if err != nil {
		return nil, err
	}

	if l.flaggedPath != "" {
		ids, err := LoadFlaggedList(l.flaggedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load flagged list: %w", err)
		}
		for _, id := range ids {
			ds.Flagged[id] = struct{}{}
		}
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", path),
		slog.Int("records", len(ds.Records)),
		slog.Int("skipped", ds.Skipped),
		slog.Int("flagged", len(ds.Flagged)),
	)
	return ds, nil
}

// ReadCSV parses a CSV table. A UTF-8 BOM is skipped and the delimiter is
// sniffed from the header line (comma or semicolon).
func (l *Loader) ReadCSV(ctx context.Context, r io.Reader, source string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read dataset", err).WithContext("source", source)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse CSV dataset", err).WithContext("source", source)
	}
	return l.build(ctx, rows, source)
}

// ReadXLSX parses the configured sheet of a workbook, or its first sheet
func (l *Loader) ReadXLSX(ctx context.Context, r io.Reader, source string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("source", source)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", sheet)).WithContext("source", source)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet rows", err).
			WithContext("source", source).WithContext("sheet", sheet)
	}
	l.logger.DebugContext(ctx, "workbook sheet selected",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)),
	)
	return l.build(ctx, rows, source)
}

func (l *Loader) build(ctx context.Context, rows [][]string, source string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewAppValidationError("dataset is empty").WithContext("source", source)
	}

	hdr := newHeader(rows[0])
	if missing := hdr.missing(requiredColumns); len(missing) > 0 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("dataset is missing required columns: %s", strings.Join(missing, ", ")),
		).WithContext("source", source)
	}

	ds := &Dataset{
		Flagged:  indicators.EntitySet{},
		Columns:  hdr.columns(),
		Source:   source,
		LoadedAt: l.now(),
		Records:  make([]indicators.Record, 0, len(rows)-1),
	}

	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blankRow(row) {
			continue
		}
		rec, flagged, err := hdr.record(row)
		if err != nil {
			ds.Skipped++
			l.logger.WarnContext(ctx, "skipping dataset row",
				slog.Int("line", i+2),
				slog.String("error", err.Error()),
			)
			continue
		}
		if flagged {
			ds.Flagged[rec.EntityID] = struct{}{}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
