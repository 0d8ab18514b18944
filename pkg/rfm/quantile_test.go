package rfm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileBins_EqualPopulation(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	bins, err := QuantileBins(values, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 3, 3, 2, 2, 1, 1, 0, 0}, bins)
}

func TestQuantileBins_BoundaryGoesToLowerBin(t *testing.T) {
	// edges are exactly 1, 2, 3, 4, 5, 6
	bins, err := QuantileBins([]float64{1, 2, 3, 4, 5, 6}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 2, 3, 4}, bins)
}

func TestQuantileBins_Degenerate(t *testing.T) {
	_, err := QuantileBins([]float64{1, 1, 1, 2, 2, 3, 3, 4}, 5)
	require.ErrorIs(t, err, ErrDegenerateDistribution)

	// five distinct values, but the 20% edge repeats the minimum
	_, err = QuantileBins([]float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3, 4, 5}, 5)
	require.ErrorIs(t, err, ErrDegenerateDistribution)
}

func TestQuantileEdges(t *testing.T) {
	edges := QuantileEdges([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	want := []float64{1, 2.8, 4.6, 6.4, 8.2, 10}
	require.Len(t, edges, len(want))
	for i := range want {
		assert.InDelta(t, want[i], edges[i], 1e-9)
	}
}

func TestRankFirst_TiesByPosition(t *testing.T) {
	assert.Equal(t, []float64{3, 1, 4, 2}, RankFirst([]float64{3, 1, 3, 2}))
	assert.Equal(t, []float64{1, 2, 3}, RankFirst([]float64{1, 1, 1}))
}
