package landmark

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the residual error between a reference and a sensed
// landmark set.
//
// Std is the sample standard deviation (n-1 divisor), while the outlier
// threshold inside ClassifyOutliers uses the population form (n
// divisor). The asymmetry is intentional; do not unify the two.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64

	// ImageSize is the per-axis max+min over the concatenation of both
	// sets. This is the extent convention inherited from the reference
	// tooling, not a bounding-box size; keep it literal.
	ImageSize [2]float64

	// ImageDiagonal is the Euclidean norm of ImageSize.
	ImageDiagonal float64
}

// Summarize reduces the residuals between a reference and a sensed
// landmark set into descriptive statistics. With useAffine set, the
// residuals come from ClassifyOutliers (affine-corrected, default
// threshold coefficient, flags discarded); otherwise they are the plain
// per-position distances over the shared prefix.
func Summarize(ref, in PointSet, useAffine bool) (Stats, error) {
	if len(ref) == 0 || len(in) == 0 {
		return Stats{}, fmt.Errorf("summarize: %w", ErrInvalidInput)
	}

	var residual []float64
	if useAffine {
		var err error
		_, residual, err = ClassifyOutliers(ref, in, DefaultStdCoef)
		if err != nil {
			return Stats{}, err
		}
	} else {
		n := commonLen(ref, in)
		residual = pairedDistances(ref, in, n)
	}

	sorted := append([]float64(nil), residual...)
	sort.Float64s(sorted)

	st := Stats{
		Count:  len(residual),
		Mean:   stat.Mean(residual, nil),
		Std:    stat.StdDev(residual, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
	}

	minX, maxX := ref[0].X, ref[0].X
	minY, maxY := ref[0].Y, ref[0].Y
	for _, ps := range []PointSet{ref, in} {
		for _, p := range ps {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	st.ImageSize = [2]float64{maxX + minX, maxY + minY}
	st.ImageDiagonal = math.Hypot(st.ImageSize[0], st.ImageSize[1])

	return st, nil
}

// median of an ascending slice, averaging the middle pair for even
// counts (the numpy convention; quantile interpolation schemes differ).
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
