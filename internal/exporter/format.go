package exporter

import (
	"fmt"
	"strconv"

	"rn518panel/internal/indicators"
)

// formatFloat writes the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatCell renders a table cell as CSV text. Missing values are empty.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return formatFloat(c)
	case int:
		return strconv.Itoa(c)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

// number converts a nullable value into a cell
func number(n indicators.Number) any {
	if !n.Valid {
		return nil
	}
	return n.Value
}

// rank converts a rank into a cell, leaving unranked rows blank
func rank(r int) any {
	if r == 0 {
		return nil
	}
	return r
}
