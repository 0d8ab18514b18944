package models

import (
	"database/sql"
	"time"
)

/*
LOAD → raw rows as yielded by a transaction source (MySQL table, XLSX sheet, CSV file).
*/

// TransactionRow is one invoice line as read from the source. CustomerID is
// nullable: anonymous sales carry no customer.
type TransactionRow struct {
	InvoiceID   string
	CustomerID  sql.NullString
	Quantity    int
	UnitPrice   float64
	InvoiceDate time.Time
}

/*
COMPUTE → one type per pipeline stage; each stage returns a fresh slice.
*/

// CleanedTransaction is a row that survived filtering, with quantity and unit
// price capped at their upper outlier bounds.
type CleanedTransaction struct {
	InvoiceID   string
	CustomerID  string
	Quantity    float64
	UnitPrice   float64
	InvoiceDate time.Time
	LineTotal   float64 // Quantity × UnitPrice after capping.
}

// CustomerMetrics holds the three raw RFM metrics of a customer.
type CustomerMetrics struct {
	CustomerID  string
	RecencyDays int     // days since the last invoice, relative to AsOf
	Frequency   int     // distinct invoices
	Monetary    float64 // sum of line totals
}

// ScoredCustomer adds the 1..5 quintile scores to the metrics.
type ScoredCustomer struct {
	CustomerMetrics
	RecencyScore   int
	FrequencyScore int
	MonetaryScore  int
}

// SegmentedCustomer is the terminal row handed to sinks.
type SegmentedCustomer struct {
	ScoredCustomer
	ScoreKey string // "<R><F>"
	RFMScore string // "<R><F><M>"
	Segment  string
}

// SegmentSummary aggregates the customers of one segment.
type SegmentSummary struct {
	Segment       string
	Customers     int
	Share         float64 // fraction of all customers
	MeanRecency   float64
	MeanFrequency float64
	MeanMonetary  float64
	TotalMonetary float64
}

// CleanStats reports what the cleaner did to the raw rows.
type CleanStats struct {
	RowsRead           int
	DroppedNoCustomer  int
	DroppedCancelled   int
	DroppedNonPositive int
	RowsKept           int
	QuantityUpper      float64
	UnitPriceUpper     float64
	QuantityCapped     int
	UnitPriceCapped    int
}

// RunResult is everything one pipeline run produced.
type RunResult struct {
	RunID      string
	AsOf       time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Clean      CleanStats
	Customers  []SegmentedCustomer
	Summary    []SegmentSummary
}

/*
CONFIG → parameters of one run; nothing here is process-wide.
*/

// Percentiles drives the outlier capper.
type Percentiles struct {
	Lower         float64 // default 0.01
	Upper         float64 // default 0.99
	IQRMultiplier float64 // default 1.5
}

// DefaultPercentiles returns the 1st/99th percentile, 1.5×IQR policy.
func DefaultPercentiles() Percentiles {
	return Percentiles{Lower: 0.01, Upper: 0.99, IQRMultiplier: 1.5}
}

// Config contains the parameters passed to the pipeline.
type Config struct {
	AsOf           time.Time // zero → latest invoice day + AsOfOffsetDays
	AsOfOffsetDays int
	Percentiles    Percentiles
	CancelMarker   string // invoice ids containing it are cancellations; empty means "C"
	Verbose        bool   // progress bar on stderr
}

// DefaultConfig is the reference policy: 1st/99th percentile capping,
// "C" cancellation marker, as-of two days after the latest invoice day.
func DefaultConfig() Config {
	return Config{
		AsOfOffsetDays: 2,
		Percentiles:    DefaultPercentiles(),
		CancelMarker:   "C",
	}
}
