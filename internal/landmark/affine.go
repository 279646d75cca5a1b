package landmark

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// machEps is the double-precision machine epsilon, used as the basis for
// the singular-value cutoff in the pseudo-inverse.
const machEps = 2.220446049250313e-16

// Affine is a 3x3 homogeneous transform operating on row vectors:
// [x y 1] * M ~= [x' y' 1]. The zero value is not usable; obtain one
// from EstimateAffine or PseudoInverse.
type Affine struct {
	m *mat.Dense
}

// At returns the matrix element at row i, column j.
func (a Affine) At(i, j int) float64 {
	return a.m.At(i, j)
}

// Matrix returns a copy of the underlying 3x3 matrix.
func (a Affine) Matrix() *mat.Dense {
	return mat.DenseCopyOf(a.m)
}

// Apply maps every point of ps through the transform, dropping the
// homogeneous column of the result.
func (a Affine) Apply(ps PointSet) PointSet {
	out := make(PointSet, len(ps))
	for i, p := range ps {
		out[i] = Point{
			X: p.X*a.m.At(0, 0) + p.Y*a.m.At(1, 0) + a.m.At(2, 0),
			Y: p.X*a.m.At(0, 1) + p.Y*a.m.At(1, 1) + a.m.At(2, 1),
		}
	}
	return out
}

// PseudoInverse returns the transform built from the Moore-Penrose
// pseudo-inverse of the matrix. For a singular fit this is an
// approximate reverse mapping, not an exact inverse.
func (a Affine) PseudoInverse() Affine {
	return Affine{m: pseudoInverse(a.m)}
}

// EstimateAffine fits the least-squares affine map from src onto dst
// using the first min(len(src), len(dst)) correspondences, then warps
// the full src forward through the fitted transform and the full dst
// backward through its pseudo-inverse. Collinear or too-few points yield
// a rank-deficient but well-defined pseudo-solution, never an error; the
// only failure is an empty common prefix.
func EstimateAffine(src, dst PointSet) (Affine, PointSet, PointSet, error) {
	n := commonLen(src, dst)
	if n == 0 {
		return Affine{}, nil, nil, fmt.Errorf("estimate affine: %w", ErrInvalidInput)
	}

	x := homogeneous(src[:n])
	y := homogeneous(dst[:n])

	// Minimum-norm least squares for X*A = Y. SVD rather than QR: the
	// QR-backed mat solvers reject rank-deficient systems.
	var m mat.Dense
	m.Mul(pseudoInverse(x), y)

	a := Affine{m: &m}
	return a, a.Apply(src), a.PseudoInverse().Apply(dst), nil
}

// homogeneous builds the n x 3 matrix of points with a trailing column
// of ones.
func homogeneous(ps PointSet) *mat.Dense {
	h := mat.NewDense(len(ps), 3, nil)
	for i, p := range ps {
		h.Set(i, 0, p.X)
		h.Set(i, 1, p.Y)
		h.Set(i, 2, 1)
	}
	return h
}

// pseudoInverse computes the Moore-Penrose pseudo-inverse of a from its
// singular value decomposition, zeroing singular values below the
// eps * max(m, n) * smax cutoff.
func pseudoInverse(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		// Factorization only fails on non-finite input; a zero matrix
		// keeps the mapping well defined for the caller.
		return mat.NewDense(c, r, nil)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	tol := float64(max(r, c)) * s[0] * machEps

	// pinv = V * diag(1/s) * U^T, keeping only values above the cutoff.
	d := len(s)
	vs := mat.NewDense(c, d, nil)
	for j := 0; j < d; j++ {
		if s[j] <= tol {
			continue
		}
		inv := 1 / s[j]
		for i := 0; i < c; i++ {
			vs.Set(i, j, v.At(i, j)*inv)
		}
	}

	var pinv mat.Dense
	pinv.Mul(vs, u.T())
	return &pinv
}
