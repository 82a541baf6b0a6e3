// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common matrix fixtures and assertion helpers
// to reduce code duplication across test files and improve test
// maintainability.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// NewSource returns a deterministic random source for test fixtures.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed+1)
}

// RandomDense returns an rows×cols matrix of standard-normal entries
// drawn from src.
func RandomDense(rows, cols int, src rand.Source) *mat.Dense {
	rnd := rand.New(src)
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rnd.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}

// MaxAbsDiff returns the largest absolute elementwise difference
// between two equally shaped matrices.
func MaxAbsDiff(a, b mat.Matrix) float64 {
	ra, ca := a.Dims()
	var max float64
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			if d := math.Abs(a.At(i, j) - b.At(i, j)); d > max {
				max = d
			}
		}
	}
	return max
}

// MaxAbs returns the largest absolute entry of a matrix.
func MaxAbs(m mat.Matrix) float64 {
	r, c := m.Dims()
	var max float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := math.Abs(m.At(i, j)); v > max {
				max = v
			}
		}
	}
	return max
}

// AssertMatEqual checks that two matrices have the same shape and agree
// elementwise within tol.
func AssertMatEqual(t *testing.T, want, got mat.Matrix, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("matrix shape = %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	if d := MaxAbsDiff(want, got); d > tol {
		t.Errorf("matrices differ by %g, want within %g\ngot:\n%v\nwant:\n%v",
			d, tol, mat.Formatted(got), mat.Formatted(want))
	}
}

// AssertSymmetric checks that a matrix equals its own transpose within
// tol.
func AssertSymmetric(t *testing.T, m mat.Matrix, tol float64) {
	t.Helper()
	r, c := m.Dims()
	if r != c {
		t.Fatalf("matrix is %dx%d, not square", r, c)
	}
	if d := MaxAbsDiff(m, m.T()); d > tol {
		t.Errorf("matrix deviates from symmetry by %g, want within %g", d, tol)
	}
}
