package dataset

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"rn518panel/internal/indicators"
)

type column struct {
	index int
	key   string
	kind  columnKind
}

// header resolves the positions of known columns. The first occurrence of a
// column key wins.
type header struct {
	cols  []column
	index map[string]int
}

func newHeader(raw []string) *header {
	h := &header{index: make(map[string]int)}
	for i, name := range raw {
		key, kind := canonical(name)
		if kind == kindIgnored {
			continue
		}
		if _, dup := h.index[key]; dup {
			continue
		}
		h.index[key] = i
		h.cols = append(h.cols, column{index: i, key: key, kind: kind})
	}
	return h
}

func (h *header) missing(required []string) []string {
	var out []string
	for _, key := range required {
		if _, ok := h.index[key]; !ok {
			out = append(out, key)
		}
	}
	return out
}

func (h *header) columns() []string {
	out := make([]string, len(h.cols))
	for i, c := range h.cols {
		out[i] = c.key
	}
	return out
}

func (h *header) cell(row []string, key string) (string, bool) {
	i, ok := h.index[key]
	if !ok || i >= len(row) {
		return "", ok
	}
	return strings.TrimSpace(row[i]), true
}

func (h *header) text(row []string, key string) string {
	v, _ := h.cell(row, key)
	if isNull(v) {
		return ""
	}
	return v
}

// record converts a row and reports whether its flagged column says SIM
func (h *header) record(row []string) (indicators.Record, bool, error) {
	rec := indicators.Record{
		Indicators: make(map[string]indicators.Number, len(indicators.Catalog())),
	}

	rec.EntityID = h.text(row, colEntityID)
	if rec.EntityID == "" {
		return rec, false, fmt.Errorf("blank entity id")
	}
	year, err := parseInt(h.text(row, colYear))
	if err != nil {
		return rec, false, fmt.Errorf("invalid year: %w", err)
	}
	quarter, err := parseInt(h.text(row, colQuarter))
	if err != nil {
		return rec, false, fmt.Errorf("invalid quarter: %w", err)
	}
	if quarter < 1 || quarter > 4 {
		return rec, false, fmt.Errorf("quarter %d out of range", quarter)
	}
	rec.Year = year
	rec.Quarter = quarter

	name := h.text(row, colOperatorName)
	rec.DisplayName = name
	rec.LegalName = name
	if v := h.text(row, colDisplayName); v != "" {
		rec.DisplayName = v
	}
	if v := h.text(row, colLegalName); v != "" {
		rec.LegalName = v
	}
	rec.Modality = h.text(row, colModality)
	rec.SizeClass = h.text(row, colSizeClass)
	if n := ParseNumber(h.text(row, colBeneficiaries)); n.Valid {
		rec.Beneficiaries = n.Value
	}

	for _, ind := range indicators.Catalog() {
		rec.Indicators[ind.Field] = indicators.Missing
	}
	for _, c := range h.cols {
		switch c.kind {
		case kindIndicator:
			v, _ := h.cell(row, c.key)
			rec.Indicators[c.key] = ParseNumber(v)
		case kindComponent:
			if rec.Components == nil {
				rec.Components = make(map[string]indicators.Number)
			}
			v, _ := h.cell(row, c.key)
			rec.Components[c.key] = ParseNumber(v)
		}
	}

	flagged := strings.EqualFold(h.text(row, colFlagged), "SIM")
	return rec, flagged, nil
}

var nullTokens = []string{"", "nan", "na", "n/a", "null", "none", "-", "—"}

func isNull(s string) bool {
	return slices.Contains(nullTokens, strings.ToLower(strings.TrimSpace(s)))
}

// ParseNumber accepts dot or comma decimals with optional grouping. When both
// separators appear the last one is the decimal one; a separator repeated
// without the other one is grouping.
func ParseNumber(s string) indicators.Number {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return indicators.Missing
	}
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return indicators.Missing
	}
	return indicators.Some(v)
}

// parseInt accepts integers written as floats, e.g. 2024.0
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("parse %q: not an integer", s)
	}
	return int(v), nil
}
