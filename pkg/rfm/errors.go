// Package rfm computes Recency-Frequency-Monetary customer segments from
// cleaned retail transactions.
//
// The stages are pure functions over slices: Cleaner.Clean → Aggregate →
// Score → Assign. Every stage returns a new slice and fails fast with one of
// the sentinel errors below, wrapped with context.
package rfm

import "errors"

var (
	// ErrInsufficientData is returned when a percentile is requested on an empty column.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrEmptyInput is returned when no cleaned transaction is left to aggregate.
	ErrEmptyInput = errors.New("empty input")
	// ErrDegenerateDistribution is returned when a metric cannot be cut into
	// non-empty quantile bins.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
	// ErrInvalidScore is returned for a score outside 1..5.
	ErrInvalidScore = errors.New("invalid score")
	// ErrAsOfBeforeLastInvoice is returned when the reference date precedes a
	// customer's last invoice, which would give a negative recency.
	ErrAsOfBeforeLastInvoice = errors.New("as-of date before last invoice")
)
