package problem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/sigbench/stats"
)

// MMSE is the minimum mean-square-error estimation problem
//
//	min_X  E[‖d − Xᵀy‖²],
//
// where y is the observed signal and d the target signal. It has the
// closed-form solution
//
//	X* = Ryy⁻¹·Ryd,
//
// with Ryy the autocorrelation matrix of y and Ryd the cross-correlation
// matrix between y and d.
//
// Its inputs are the signal block as the sole fused
// signal and the target block as the sole global parameter.
type MMSE struct {
	solutionCache
	filters int
}

// NewMMSE returns an MMSE problem producing estimators with the given
// number of filter columns. The filter count must equal the target
// block's channel count.
func NewMMSE(filters int) (*MMSE, error) {
	if filters <= 0 {
		return nil, fmt.Errorf("problem: filter count must be positive, got %d", filters)
	}
	return &MMSE{filters: filters}, nil
}

// Filters returns the configured estimator column count.
func (p *MMSE) Filters() int { return p.filters }

// Solve computes the closed-form MMSE estimator. Convergence parameters
// and the initial estimate in opts are ignored. A singular or
// ill-conditioned autocorrelation matrix surfaces as a wrapped inversion
// error; no regularization is attempted.
func (p *MMSE) Solve(inputs Inputs, opts *SolveOptions) (*mat.Dense, error) {
	y, d, err := p.unpack(inputs)
	if err != nil {
		return nil, err
	}

	ryy := stats.Autocorrelation(y)
	ryd := stats.CrossCorrelation(y, d)

	var ryyInv, x mat.Dense
	if err := ryyInv.Inverse(ryy); err != nil {
		return nil, fmt.Errorf("mmse: inverting autocorrelation matrix: %w", err)
	}
	x.Mul(&ryyInv, ryd)

	p.store(&x, opts)
	return &x, nil
}

// EvaluateObjective returns the mean-square error of the estimator x on
// the window's signal and target:
//
//	trace(Xᵀ·Ryy·X) − 2·trace(Xᵀ·Ryd) + trace(Rdd).
func (p *MMSE) EvaluateObjective(x *mat.Dense, inputs Inputs) (float64, error) {
	y, d, err := p.unpack(inputs)
	if err != nil {
		return 0, err
	}
	ryy := stats.Autocorrelation(y)
	rdd := stats.Autocorrelation(d)
	ryd := stats.CrossCorrelation(y, d)

	var xr, quad, cross mat.Dense
	xr.Mul(x.T(), ryy)
	quad.Mul(&xr, x)
	cross.Mul(x.T(), ryd)
	return mat.Trace(&quad) - 2*mat.Trace(&cross) + mat.Trace(rdd), nil
}

// Constraints returns the empty constraint set: MMSE is unconstrained.
func (p *MMSE) Constraints(Inputs) Constraints {
	return Constraints{}
}

// unpack validates the MMSE input layout and shape contract.
func (p *MMSE) unpack(inputs Inputs) (y, d *mat.Dense, err error) {
	if err := inputs.Validate(); err != nil {
		return nil, nil, err
	}
	if len(inputs.GlobalParameters) < 1 {
		return nil, nil, fmt.Errorf("%w: mmse needs a target block", ErrShapeMismatch)
	}
	y = inputs.FusedSignals[0]
	d = inputs.GlobalParameters[0]

	_, ySamples := y.Dims()
	dr, dc := d.Dims()
	if dc != ySamples {
		return nil, nil, fmt.Errorf("%w: target block has %d samples, signal has %d",
			ErrShapeMismatch, dc, ySamples)
	}
	if dr != p.filters {
		return nil, nil, fmt.Errorf("%w: target block has %d channels, want %d filters",
			ErrShapeMismatch, dr, p.filters)
	}
	return y, d, nil
}

var _ Problem = (*MMSE)(nil)
