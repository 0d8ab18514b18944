package rfm

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"rfm-segmentation/pkg/models"
)

// Quintiles is the number of score buckets per metric.
const Quintiles = 5

// Score turns each metric into a 1..5 score:
//   - recency: quintile of the raw days, inverted (most recent → 5)
//   - frequency: quintile of RankFirst(frequency), direct
//   - monetary: quintile of the raw spend, direct
//
// metrics must be in a stable order (Aggregate sorts by customer id); that
// order breaks frequency ties.
func Score(metrics []models.CustomerMetrics) ([]models.ScoredCustomer, error) {
	n := len(metrics)
	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	for i, m := range metrics {
		recency[i] = float64(m.RecencyDays)
		frequency[i] = float64(m.Frequency)
		monetary[i] = m.Monetary
	}

	var rScores, fScores, mScores []int
	var g errgroup.Group
	g.Go(func() error {
		bins, err := QuantileBins(recency, Quintiles)
		if err != nil {
			return fmt.Errorf("score recency: %w", err)
		}
		rScores = binsToScores(bins, true)
		return nil
	})
	g.Go(func() error {
		bins, err := QuantileBins(RankFirst(frequency), Quintiles)
		if err != nil {
			return fmt.Errorf("score frequency: %w", err)
		}
		fScores = binsToScores(bins, false)
		return nil
	})
	g.Go(func() error {
		bins, err := QuantileBins(monetary, Quintiles)
		if err != nil {
			return fmt.Errorf("score monetary: %w", err)
		}
		mScores = binsToScores(bins, false)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.ScoredCustomer, n)
	for i, m := range metrics {
		out[i] = models.ScoredCustomer{
			CustomerMetrics: m,
			RecencyScore:    rScores[i],
			FrequencyScore:  fScores[i],
			MonetaryScore:   mScores[i],
		}
	}
	return out, nil
}

// ScoreKey is the recency digit followed by the frequency digit.
func ScoreKey(s models.ScoredCustomer) string {
	return strconv.Itoa(s.RecencyScore) + strconv.Itoa(s.FrequencyScore)
}

// RFMScore appends the monetary digit to ScoreKey.
func RFMScore(s models.ScoredCustomer) string {
	return ScoreKey(s) + strconv.Itoa(s.MonetaryScore)
}

func binsToScores(bins []int, inverted bool) []int {
	scores := make([]int, len(bins))
	for i, b := range bins {
		if inverted {
			scores[i] = Quintiles - b
		} else {
			scores[i] = b + 1
		}
	}
	return scores
}
