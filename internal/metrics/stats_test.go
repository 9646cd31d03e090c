package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	require.Equal(t, 0.0, Mean(nil))
	require.Equal(t, 8.0, Mean([]float64{8.5, 7.5}))
	require.Equal(t, 5.0, Mean([]float64{5}))
}

func TestVarianceAndStdDev(t *testing.T) {
	require.Equal(t, 0.0, Variance(nil))
	require.Equal(t, 0.0, Variance([]float64{4, 4, 4}))

	// population variance of {2, 4, 6} is 8/3
	require.InDelta(t, 8.0/3.0, Variance([]float64{2, 4, 6}), 1e-9)
	require.InDelta(t, 0.5, StdDev([]float64{8.5, 7.5}), 1e-9)
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax(nil)
	require.Equal(t, 0.0, lo)
	require.Equal(t, 0.0, hi)

	lo, hi = MinMax([]float64{7.5, 9.0, 8.5})
	require.Equal(t, 7.5, lo)
	require.Equal(t, 9.0, hi)

	lo, hi = MinMax([]float64{3.3})
	require.Equal(t, 3.3, lo)
	require.Equal(t, 3.3, hi)
}
