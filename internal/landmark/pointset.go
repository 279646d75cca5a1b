// Package landmark implements consensus aggregation, affine alignment,
// outlier classification and residual-error statistics for manually
// annotated image landmarks. All functions are pure: they hold no state
// between calls and are safe to invoke from concurrent workers.
package landmark

import (
	"errors"
	"math"
)

var (
	// ErrInvalidInput reports an empty point set or an empty point-set
	// collection where at least one element is required.
	ErrInvalidInput = errors.New("landmark: empty input")

	// ErrDimensionMismatch reports input that does not carry exactly two
	// coordinate columns.
	ErrDimensionMismatch = errors.New("landmark: expected exactly two coordinate columns")
)

// Point is a single 2D landmark coordinate.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// PointSet is an ordered sequence of 2D landmarks. Position is the
// correspondence key: index i in one set corresponds to index i in
// another set describing the same target. Sets are never matched by
// coordinate similarity, and sets annotating the same target may have
// different lengths when an annotator skipped trailing points.
type PointSet []Point

// Clone returns an independent copy of the set.
func (ps PointSet) Clone() PointSet {
	return append(PointSet(nil), ps...)
}

// commonLen is the shared prefix length of two sets, the truncation
// applied by every pairwise operation.
func commonLen(a, b PointSet) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}

// pairedDistances returns the per-position Euclidean distances over the
// first n positions of a and b.
func pairedDistances(a, b PointSet, n int) []float64 {
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = a[i].Distance(b[i])
	}
	return d
}
