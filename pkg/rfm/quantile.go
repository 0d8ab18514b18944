package rfm

import (
	"fmt"
	"sort"
)

// QuantileBins assigns each value to one of q equal-population bins (0-based).
// Edges are the k/q interpolated percentiles; intervals are right-closed and
// the minimum belongs to bin 0, so a value on an edge goes to the lower bin.
func QuantileBins(values []float64, q int) ([]int, error) {
	if n := distinct(values); n < q {
		return nil, fmt.Errorf("%d distinct values for %d bins: %w", n, q, ErrDegenerateDistribution)
	}
	edges := QuantileEdges(values, q)
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("bin edge %d repeats %g: %w", i, edges[i], ErrDegenerateDistribution)
		}
	}

	bins := make([]int, len(values))
	for i, v := range values {
		b := sort.SearchFloat64s(edges, v) - 1
		if b < 0 {
			b = 0
		}
		if b > q-1 {
			b = q - 1
		}
		bins[i] = b
	}
	return bins, nil
}

// QuantileEdges returns the q+1 cut points at 0, 1/q, …, 1.
func QuantileEdges(values []float64, q int) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := sortedCopy(values)
	edges := make([]float64, q+1)
	for k := 0; k <= q; k++ {
		edges[k] = percentile(sorted, float64(k)/float64(q))
	}
	return edges
}

// RankFirst returns 1-based ordinal ranks; equal values are ranked in the
// order they appear in values.
func RankFirst(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
	}
	return ranks
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
