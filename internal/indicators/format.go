package indicators

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is displayed for missing values
const Placeholder = "—"

var (
	metricPrinter = message.NewPrinter(language.English)
	brlPrinter    = message.NewPrinter(language.BrazilianPortuguese)
)

// FormatMetric renders v according to kind with thousands grouping
func FormatMetric(v Number, kind Kind) string {
	if !v.Valid {
		return Placeholder
	}
	switch kind {
	case KindPercentage:
		return metricPrinter.Sprintf("%.2f%%", v.Value*100)
	case KindDays:
		return metricPrinter.Sprintf("%.1f days", v.Value)
	case KindCurrency:
		return FormatCurrency(v)
	default:
		return metricPrinter.Sprintf("%.2f", v.Value)
	}
}

// FormatDifference renders a delta with an explicit sign
func FormatDifference(v Number, kind Kind) string {
	if !v.Valid {
		return Placeholder
	}
	switch kind {
	case KindPercentage:
		return metricPrinter.Sprintf("%+.2f%%", v.Value*100)
	case KindDays:
		return metricPrinter.Sprintf("%+.1f days", v.Value)
	default:
		return metricPrinter.Sprintf("%+.2f", v.Value)
	}
}

// FormatCurrency renders BRL with Brazilian separators and no decimals
func FormatCurrency(v Number) string {
	if !v.Valid {
		return Placeholder
	}
	return brlPrinter.Sprintf("R$ %.0f", v.Value)
}

// FormatCount renders an integer-like count with Brazilian grouping
func FormatCount(v float64) string {
	return brlPrinter.Sprintf("%.0f", v)
}

// FormatVariation renders a relative change as a signed percentage
func FormatVariation(v Number) string {
	return FormatDifference(v, KindPercentage)
}
