// Package exporter serializes panel views to CSV and XLSX.
//
// A view is first flattened into a Table (headers plus typed cells) by one of
// the builders in tables.go. Tables are then written verbatim:
//
// CSVWriter: CSV files or streams with an optional UTF-8 BOM for Excel.
//
// WriteXLSX: one worksheet per table using excelize, numeric cells kept numeric.
//
// Example usage:
//
//	table := exporter.RankingTable(indicators.RankLatest(rows))
//	err := exporter.WriteCSVTo(w, table, true)
//
//	writer := exporter.NewCSVWriter("data/exports")
//	path, err := writer.WriteTable(table, exporter.FormatXLSX)
package exporter
