package calculator

import (
	"context"
	"fmt"
	"time"

	"rfm-segmentation/pkg/logging"
	"rfm-segmentation/pkg/models"
	"rfm-segmentation/pkg/rfm"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// TransactionSource yields the raw transaction log.
type TransactionSource interface {
	Load(ctx context.Context) ([]models.TransactionRow, error)
}

// Sink consumes the result of a run.
type Sink interface {
	Write(ctx context.Context, res *models.RunResult) error
}

var stages = []string{"load", "clean", "aggregate", "score", "classify"}

// Run loads, cleans, aggregates, scores and classifies, then hands the result
// to every sink in order. Any stage error aborts the run.
func Run(ctx context.Context, src TransactionSource, cfg models.Config, sinks ...Sink) (*models.RunResult, error) {
	if cfg.Percentiles == (models.Percentiles{}) {
		cfg.Percentiles = models.DefaultPercentiles()
	}
	if cfg.CancelMarker == "" {
		cfg.CancelMarker = rfm.DefaultCancelMarker
	}
	res := &models.RunResult{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	log := logging.Logger().With().Str("run_id", res.RunID).Logger()

	var bar *progressbar.ProgressBar
	if cfg.Verbose {
		bar = progressbar.Default(int64(len(stages)+len(sinks)), "rfm")
	} else {
		bar = progressbar.DefaultSilent(int64(len(stages) + len(sinks)))
	}
	step := func(name string) error {
		bar.Describe(name)
		_ = bar.Add(1)
		return ctx.Err()
	}

	// Load
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	log.Info().Int("rows", len(rows)).Msg("transactions loaded")
	if err := step("load"); err != nil {
		return nil, err
	}

	// Clean
	cleaned, stats, err := rfm.NewCleaner(cfg.Percentiles, cfg.CancelMarker).Clean(rows)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	res.Clean = stats
	log.Info().
		Int("kept", stats.RowsKept).
		Int("no_customer", stats.DroppedNoCustomer).
		Int("cancelled", stats.DroppedCancelled).
		Int("non_positive", stats.DroppedNonPositive).
		Float64("quantity_upper", stats.QuantityUpper).
		Float64("price_upper", stats.UnitPriceUpper).
		Int("quantity_capped", stats.QuantityCapped).
		Int("price_capped", stats.UnitPriceCapped).
		Msg("transactions cleaned")
	if err := step("clean"); err != nil {
		return nil, err
	}

	// Aggregate
	res.AsOf = cfg.AsOf
	if res.AsOf.IsZero() && len(cleaned) > 0 {
		res.AsOf = rfm.DefaultAsOf(cleaned, cfg.AsOfOffsetDays)
		log.Debug().Time("latest_invoice", rfm.LatestInvoice(cleaned)).Msg("as-of date derived from data")
	}
	metrics, err := rfm.Aggregate(cleaned, res.AsOf)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	log.Info().Int("customers", len(metrics)).Str("as_of", res.AsOf.Format("2006-01-02")).Msg("metrics aggregated")
	if err := step("aggregate"); err != nil {
		return nil, err
	}

	// Score
	scored, err := rfm.Score(metrics)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	if err := step("score"); err != nil {
		return nil, err
	}

	// Classify
	res.Customers, err = rfm.Assign(scored)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	res.Summary = rfm.Summarize(res.Customers)
	for _, s := range res.Summary {
		log.Debug().Str("segment", s.Segment).Int("customers", s.Customers).Float64("monetary", s.TotalMonetary).Msg("segment")
	}
	if err := step("classify"); err != nil {
		return nil, err
	}
	res.FinishedAt = time.Now().UTC()

	for _, s := range sinks {
		if err := s.Write(ctx, res); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
		if err := step("write"); err != nil {
			return nil, err
		}
	}
	_ = bar.Finish()
	log.Info().Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).Int("segments", len(res.Summary)).Msg("run complete")
	return res, nil
}
