package landmark

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// DefaultStdCoef is the default residual threshold multiplier for
// outlier classification.
const DefaultStdCoef = 5

// ClassifyOutliers aligns p0 onto p1 with a least-squares affine fit and
// flags correspondences whose residual exceeds stdCoef population
// standard deviations of the full residual vector. Both sets are
// truncated to their shared minimum length first.
//
// The threshold is self-referential: flagged points contribute to the
// deviation they are measured against. One global affine fit also means
// only affine displacement is absorbed; clustered local deformation is
// reported as outliers.
func ClassifyOutliers(p0, p1 PointSet, stdCoef float64) ([]bool, []float64, error) {
	n := commonLen(p0, p1)
	if n == 0 {
		return nil, nil, fmt.Errorf("classify outliers: %w", ErrInvalidInput)
	}

	_, warped, _, err := EstimateAffine(p0[:n], p1[:n])
	if err != nil {
		return nil, nil, err
	}

	residual := pairedDistances(p1, warped, n)
	threshold := stdCoef * stat.PopStdDev(residual, nil)

	outliers := make([]bool, n)
	for i, r := range residual {
		outliers[i] = r > threshold
	}
	return outliers, residual, nil
}
