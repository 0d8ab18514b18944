package rfm

import (
	"fmt"
	"math"
	"sort"

	"rfm-segmentation/pkg/models"
)

// Bounds are the outlier thresholds of one numeric column.
type Bounds struct {
	Lower float64 // computed, never applied
	Upper float64
}

// ComputeBounds derives q1/q3 at p.Lower/p.Upper and widens them by
// p.IQRMultiplier × (q3 − q1).
func ComputeBounds(values []float64, p models.Percentiles) (Bounds, error) {
	if len(values) == 0 {
		return Bounds{}, fmt.Errorf("compute bounds: %w", ErrInsufficientData)
	}
	sorted := sortedCopy(values)
	q1 := percentile(sorted, p.Lower)
	q3 := percentile(sorted, p.Upper)
	iqr := q3 - q1
	return Bounds{
		Lower: q1 - p.IQRMultiplier*iqr,
		Upper: q3 + p.IQRMultiplier*iqr,
	}, nil
}

// Cap returns a copy of values where anything above upper is replaced by upper.
func Cap(values []float64, upper float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v > upper {
			v = upper
		}
		out[i] = v
	}
	return out
}

// percentile interpolates linearly between the two closest ranks of an
// ascending slice (pos = p·(n−1)). sorted must not be empty.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
