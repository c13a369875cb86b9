package exporter

import (
	"fmt"
	"strings"
)

// View names an exportable view
type View string

// Exportable views
const (
	ViewIndicators View = "indicators"
	ViewComponents View = "components"
	ViewStatus     View = "status"
	ViewRanking    View = "ranking"
	ViewComparison View = "comparison"
	ViewFinancial  View = "financial"
)

// Views lists the exportable views
var Views = []View{ViewIndicators, ViewComponents, ViewStatus, ViewRanking, ViewComparison, ViewFinancial}

// ParseView validates a view name
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == strings.ToLower(s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown export view %q", s)
}

// Format is an export file format
type Format string

// Supported formats
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table is a flattened view ready to be written. Cells hold string, int,
// float64 or nil for a missing value.
type Table struct {
	Name    string
	Sheet   string
	Headers []string
	Rows    [][]any
}

// FileName returns the download name of the table in format f
func (t Table) FileName(f Format) string {
	return t.Name + "." + string(f)
}

// Records renders every row as CSV text
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v)
		}
		out[i] = rec
	}
	return out
}
