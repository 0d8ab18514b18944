// Package metrics records batch-run metrics in a private Prometheus registry
// and writes them in the node_exporter textfile format.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rfm-segmentation/pkg/models"
)

const namespace = "rfm"

// Recorder holds the metrics of one run.
type Recorder struct {
	// Path of the .prom file written by Write; empty only records.
	Path string

	reg *prometheus.Registry

	RowsRead         prometheus.Counter
	RowsDropped      *prometheus.CounterVec
	ValuesCapped     *prometheus.CounterVec
	Customers        prometheus.Gauge
	SegmentCustomers *prometheus.GaugeVec
	RunDuration      prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New(path string) *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		Path: path,
		reg:  reg,
		RowsRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Raw transaction rows read from the source",
		}),
		RowsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows removed by the cleaner, by reason",
		}, []string{"reason"}),
		ValuesCapped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_capped_total",
			Help:      "Values replaced by their upper outlier bound, by column",
		}, []string{"column"}),
		Customers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "customers",
			Help:      "Customers scored in the last run",
		}),
		SegmentCustomers: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segment_customers",
			Help:      "Customers per segment in the last run",
		}, []string{"segment"}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe copies the counts of a finished run into the metrics.
func (r *Recorder) Observe(res *models.RunResult) {
	cs := res.Clean
	r.RowsRead.Add(float64(cs.RowsRead))
	r.RowsDropped.WithLabelValues("no_customer").Add(float64(cs.DroppedNoCustomer))
	r.RowsDropped.WithLabelValues("cancelled").Add(float64(cs.DroppedCancelled))
	r.RowsDropped.WithLabelValues("non_positive_quantity").Add(float64(cs.DroppedNonPositive))
	r.ValuesCapped.WithLabelValues("quantity").Add(float64(cs.QuantityCapped))
	r.ValuesCapped.WithLabelValues("unit_price").Add(float64(cs.UnitPriceCapped))

	r.Customers.Set(float64(len(res.Customers)))
	for _, s := range res.Summary {
		r.SegmentCustomers.WithLabelValues(s.Segment).Set(float64(s.Customers))
	}
	r.RunDuration.Set(res.FinishedAt.Sub(res.StartedAt).Seconds())
	finished := res.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	r.LastSuccess.Set(float64(finished.Unix()))
}

// Write implements the sink contract: observe, then write the textfile.
func (r *Recorder) Write(_ context.Context, res *models.RunResult) error {
	r.Observe(res)
	if r.Path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.Path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
