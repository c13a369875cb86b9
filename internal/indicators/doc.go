// Package indicators implements the transformation pipeline behind the RN 518
// dental-operator panel.
//
// The package receives a pre-joined table of quarterly observations and derives
// every table the panel shows from it. All functions are pure: inputs are never
// mutated and identical inputs always produce identical outputs, so callers may
// cache results keyed by the filter specification.
//
// # Stages
//
//   - filter.go: FilterEngine applies a FilterSpec to the base table
//   - period.go: period keys, period labels and entity display labels
//   - replication.go: synthesizes the missing quarters of annual filers
//   - classify.go: threshold ladders mapping averages to status labels
//   - ranking.go: min-method ranking at the latest period
//   - segment.go: entity versus modality and size peer averages
//   - summary.go, series.go, financial.go, correlation.go, options.go: panel views
//
// # Missing values
//
// Indicator values are Number values. A missing Number is ignored by every mean and
// rank, and any delta with a missing operand is itself missing. Views never return
// an error; an empty or unavailable view carries a State explaining why.
package indicators
