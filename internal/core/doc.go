// Package core turns a raw disaster-event CSV into a cleaned,
// feature-enriched table.
//
// The package has no transport dependencies; the CLI, the HTTP server and
// tests all call the same functions.
//
// # Stages
//
// Each stage is a function from a table to a new table. Inputs are never
// modified.
//
//   - [LoadRawTable] reads <root>/data/raw/<filename>, inferring numeric and
//     string columns. A missing file is a [*MissingInputError].
//   - [Clean] drops rows with a missing target (when a target column is
//     given and present) and then exact duplicate rows, keeping the first.
//   - [Deriver.Derive] applies an ordered list of [Rule]s. A rule runs only
//     when all of its prerequisite columns exist.
//
// [Pipeline.BuildFeatureTable] runs the three in order after making sure the
// project directories exist. [MakeFeatureTable] is the same composition
// without the I/O.
//
// # Default rules
//
//	log_fatalities    = ln(fatalities + 1)
//	affected_per_1000 = 1000 * total_affected / population
//
// Negative fatalities and zero populations produce NaN or ±Inf. Those values
// are kept as they are.
//
// # Error Handling
//
// Errors are mapped to user-facing messages with [MapError]. Codes:
//
//   - FILE001, FILE002, FILE005: input file errors
//   - DIR001: project directory creation
//   - DB004, DB006: database errors when persisting
//   - REQ001: invalid request parameters
//   - UPL004, UPL005: cancelled or timed-out requests
package core
