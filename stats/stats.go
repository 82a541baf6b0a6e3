// Package stats provides second-moment statistics and normalization for
// finite multi-channel signal blocks.
//
// All functions operate on dense matrices whose rows are channels and
// whose columns are samples, return freshly allocated results, and never
// mutate their inputs. Given identical inputs they are bit-reproducible:
// there is no internal randomness and no hidden state.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MakeSymmetric returns (m + mᵀ)/2. Averaging with the transpose cancels
// the floating-point asymmetry left behind by matrix products that are
// symmetric in exact arithmetic. Panics if m is not square.
func MakeSymmetric(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	if r != c {
		panic("stats: MakeSymmetric called with non-square matrix")
	}
	sym := mat.NewDense(r, c, nil)
	sym.Add(m, m.T())
	sym.Scale(0.5, sym)
	return sym
}

// Autocorrelation computes the autocorrelation matrix (Y·Yᵀ)/n of a
// signal block, where n is the number of samples (columns) of Y. The
// result is exactly symmetric.
func Autocorrelation(y *mat.Dense) *mat.Dense {
	_, n := y.Dims()
	return AutocorrelationN(y, float64(n))
}

// AutocorrelationN is Autocorrelation with an explicit normalizer in
// place of the sample count.
func AutocorrelationN(y *mat.Dense, normalizer float64) *mat.Dense {
	r, _ := y.Dims()
	m := mat.NewDense(r, r, nil)
	m.Mul(y, y.T())
	m.Scale(1/normalizer, m)
	return MakeSymmetric(m)
}

// CrossCorrelation computes the cross-correlation matrix (Y·Dᵀ)/n of two
// signal blocks, where n is the number of samples (columns) of Y. The
// blocks must have matching sample counts; the result is generally not
// square and is not symmetrized.
func CrossCorrelation(y, d *mat.Dense) *mat.Dense {
	_, n := y.Dims()
	return CrossCorrelationN(y, d, float64(n))
}

// CrossCorrelationN is CrossCorrelation with an explicit normalizer in
// place of the sample count.
func CrossCorrelationN(y, d *mat.Dense, normalizer float64) *mat.Dense {
	ry, _ := y.Dims()
	rd, _ := d.Dims()
	m := mat.NewDense(ry, rd, nil)
	m.Mul(y, d.T())
	m.Scale(1/normalizer, m)
	return m
}

// Covariance computes the covariance matrix of a signal block: the
// autocorrelation minus the outer product of the row means. The result
// is exactly symmetric.
func Covariance(y *mat.Dense) *mat.Dense {
	_, n := y.Dims()
	return CovarianceN(y, float64(n))
}

// CovarianceN is Covariance with an explicit normalizer in place of the
// sample count.
func CovarianceN(y *mat.Dense, normalizer float64) *mat.Dense {
	r, _ := y.Dims()
	means := rowMeans(y)
	m := mat.NewDense(r, r, nil)
	m.Mul(y, y.T())
	m.Scale(1/normalizer, m)
	var outer mat.Dense
	outer.Outer(1, means, means)
	m.Sub(m, &outer)
	return MakeSymmetric(m)
}

// CrossCovariance computes the cross-covariance matrix of two signal
// blocks: the cross-correlation minus the outer product of the two
// blocks' row means.
func CrossCovariance(y, d *mat.Dense) *mat.Dense {
	_, n := y.Dims()
	return CrossCovarianceN(y, d, float64(n))
}

// CrossCovarianceN is CrossCovariance with an explicit normalizer in
// place of the sample count.
func CrossCovarianceN(y, d *mat.Dense, normalizer float64) *mat.Dense {
	ry, _ := y.Dims()
	rd, _ := d.Dims()
	m := mat.NewDense(ry, rd, nil)
	m.Mul(y, d.T())
	m.Scale(1/normalizer, m)
	var outer mat.Dense
	outer.Outer(1, rowMeans(y), rowMeans(d))
	m.Sub(m, &outer)
	return m
}

// Normalize returns a copy of the signal block with each row shifted to
// zero mean and scaled to unit standard deviation.
//
// A row with zero variance divides by zero and yields non-finite output;
// callers must guarantee every row has nonzero variance.
func Normalize(data *mat.Dense) *mat.Dense {
	return NormalizeScale(data, 1)
}

// NormalizeScale is Normalize with a final multiplication by scale, so
// every row ends with standard deviation |scale|.
func NormalizeScale(data *mat.Dense, scale float64) *mat.Dense {
	r, c := data.Dims()
	out := mat.NewDense(r, c, nil)
	out.Copy(data)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		mean := floats.Sum(row) / float64(c)
		floats.AddConst(-mean, row)
		// Population variance, matching the 1/n moment convention used
		// throughout this package.
		var ss float64
		for _, v := range row {
			ss += v * v
		}
		std := math.Sqrt(ss / float64(c))
		floats.Scale(scale/std, row)
	}
	return out
}

// rowMeans returns the per-row means of m as a column vector.
func rowMeans(m *mat.Dense) *mat.VecDense {
	r, c := m.Dims()
	means := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		means.SetVec(i, floats.Sum(m.RawRowView(i))/float64(c))
	}
	return means
}
