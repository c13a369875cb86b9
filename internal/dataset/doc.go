// Package dataset loads the pre-joined indicator table from local CSV or XLSX
// files into indicator records.
//
// Headers are matched after trimming and lower-casing, and both the source
// column names (reg_ans, ano, trimestre, sinistralidade, ...) and the canonical
// field keys (entity_id, year, quarter, loss_ratio, ...) are accepted. Every
// catalog indicator is present on a loaded record, missing when the file has no
// such column; currency components are only present when their column exists.
package dataset
