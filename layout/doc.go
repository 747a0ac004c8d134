// Package layout provides the shared geometry and allocation algorithms
// every chart type is built from: largest-remainder discrete allocation,
// contiguous percentage-run layout, deterministic series resampling, and
// proportional interleaving.
//
// All functions are pure and never panic: non-finite numbers, negative
// counts, and empty inputs are clamped or coerced to safe defaults.
// Callers that need to surface an input problem do so through a warning
// channel of their own; these functions stay silent.
package layout
