package landmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// Eight correspondences: the first seven share one affine relationship
// (with annotation noise), the last one is grossly misplaced.
var (
	outlierP0 = PointSet{
		{X: 4, Y: 116}, {X: 4, Y: 4}, {X: 26, Y: 4}, {X: 26, Y: 116},
		{X: 18, Y: 45}, {X: 0, Y: 0}, {X: -12, Y: 8}, {X: 1, Y: 1},
	}
	outlierP1 = PointSet{
		{X: 61, Y: 56}, {X: 61, Y: -56}, {X: 39, Y: -56}, {X: 39, Y: 56},
		{X: 47, Y: -15}, {X: 65, Y: -60}, {X: 77, Y: -52}, {X: 0, Y: 0},
	}
)

func TestClassifyOutliers(t *testing.T) {
	t.Parallel()

	t.Run("flags only the inconsistent correspondence", func(t *testing.T) {
		t.Parallel()
		outliers, residual, err := ClassifyOutliers(outlierP0, outlierP1, 3)
		require.NoError(t, err)
		require.Len(t, outliers, 8)
		require.Len(t, residual, 8)

		assert.Equal(t, []bool{false, false, false, false, false, false, false, true}, outliers)

		wantResidual := []float64{1.02, 16.78, 10.29, 5.47, 6.88, 18.52, 20.94, 68.96}
		for i, want := range wantResidual {
			assert.InDelta(t, want, residual[i], 0.01, "residual[%d]", i)
		}
	})

	t.Run("residuals are non-negative", func(t *testing.T) {
		t.Parallel()
		_, residual, err := ClassifyOutliers(outlierP0, outlierP1, DefaultStdCoef)
		require.NoError(t, err)
		for i, r := range residual {
			assert.GreaterOrEqual(t, r, 0.0, "residual[%d]", i)
		}
	})

	t.Run("threshold uses the population deviation", func(t *testing.T) {
		t.Parallel()
		stdCoef := 3.0
		outliers, residual, err := ClassifyOutliers(outlierP0, outlierP1, stdCoef)
		require.NoError(t, err)

		threshold := stdCoef * stat.PopStdDev(residual, nil)
		for i, r := range residual {
			assert.Equal(t, r > threshold, outliers[i], "position %d", i)
		}
	})

	t.Run("truncates to shared prefix", func(t *testing.T) {
		t.Parallel()
		full, fullResidual, err := ClassifyOutliers(outlierP0, outlierP1[:5], 3)
		require.NoError(t, err)
		short, shortResidual, err := ClassifyOutliers(outlierP0[:5], outlierP1[:5], 3)
		require.NoError(t, err)

		assert.Equal(t, short, full)
		require.Len(t, fullResidual, 5)
		for i := range fullResidual {
			assert.InDelta(t, shortResidual[i], fullResidual[i], 1e-9)
		}
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()
		_, _, err := ClassifyOutliers(nil, outlierP1, DefaultStdCoef)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
