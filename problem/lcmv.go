package problem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/sigbench/stats"
)

// LCMV is the linearly-constrained minimum-variance estimation problem
//
//	min_X  E[‖Xᵀy‖²]  subject to  XᵀB = H,
//
// where y is the observed signal, B the steering matrix and H the
// constraint target. It has the closed-form solution
//
//	X* = Ryy⁻¹·B·(Bᵀ·Ryy⁻¹·B)⁻¹·Hᵀ,
//
// with Ryy the autocorrelation matrix of y.
//
// Its inputs are [Y] / [B] / [H]: the signal block as the sole fused
// signal, the steering matrix as the sole fused constant and the
// constraint target as the sole global parameter.
type LCMV struct {
	solutionCache
	filters int
}

// NewLCMV returns an LCMV problem producing estimators with the given
// number of filter columns.
func NewLCMV(filters int) (*LCMV, error) {
	if filters <= 0 {
		return nil, fmt.Errorf("problem: filter count must be positive, got %d", filters)
	}
	return &LCMV{filters: filters}, nil
}

// Filters returns the configured estimator column count.
func (p *LCMV) Filters() int { return p.filters }

// Solve computes the closed-form LCMV estimator. Convergence parameters
// and the initial estimate in opts are ignored. A singular or
// ill-conditioned autocorrelation or steering Gram matrix surfaces as a
// wrapped inversion error; no regularization is attempted.
func (p *LCMV) Solve(inputs Inputs, opts *SolveOptions) (*mat.Dense, error) {
	y, b, h, err := p.unpack(inputs)
	if err != nil {
		return nil, err
	}

	ryy := stats.Autocorrelation(y)
	var ryyInv mat.Dense
	if err := ryyInv.Inverse(ryy); err != nil {
		return nil, fmt.Errorf("lcmv: inverting autocorrelation matrix: %w", err)
	}

	var ryyInvB mat.Dense
	ryyInvB.Mul(&ryyInv, b)

	var gram mat.Dense
	gram.Mul(b.T(), &ryyInvB)
	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return nil, fmt.Errorf("lcmv: inverting steering Gram matrix: %w", err)
	}

	var tmp, x mat.Dense
	tmp.Mul(&ryyInvB, &gramInv)
	x.Mul(&tmp, h.T())

	p.store(&x, opts)
	return &x, nil
}

// EvaluateObjective returns trace(Xᵀ·Ryy·X), the output variance of the
// estimator x on the window's signal.
func (p *LCMV) EvaluateObjective(x *mat.Dense, inputs Inputs) (float64, error) {
	y, _, _, err := p.unpack(inputs)
	if err != nil {
		return 0, err
	}
	ryy := stats.Autocorrelation(y)
	var xr, obj mat.Dense
	xr.Mul(x.T(), ryy)
	obj.Mul(&xr, x)
	return mat.Trace(&obj), nil
}

// Constraints returns the equality residual XᵀB − H; LCMV has no
// inequality constraints.
func (p *LCMV) Constraints(inputs Inputs) Constraints {
	b := inputs.FusedConstants[0]
	h := inputs.GlobalParameters[0]
	return Constraints{
		Equality: func(x *mat.Dense) *mat.Dense {
			var res mat.Dense
			res.Mul(x.T(), b)
			res.Sub(&res, h)
			return &res
		},
	}
}

// unpack validates the LCMV input layout and shape contract.
func (p *LCMV) unpack(inputs Inputs) (y, b, h *mat.Dense, err error) {
	if err := inputs.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if len(inputs.FusedConstants) < 1 || len(inputs.GlobalParameters) < 1 {
		return nil, nil, nil, fmt.Errorf("%w: lcmv needs a steering matrix and a constraint target", ErrShapeMismatch)
	}
	y = inputs.FusedSignals[0]
	b = inputs.FusedConstants[0]
	h = inputs.GlobalParameters[0]

	_, steering := b.Dims()
	hr, hc := h.Dims()
	if hr != p.filters || hc != steering {
		return nil, nil, nil, fmt.Errorf("%w: constraint target is %dx%d, want %dx%d (filters x steering)",
			ErrShapeMismatch, hr, hc, p.filters, steering)
	}
	return y, b, h, nil
}

var _ Problem = (*LCMV)(nil)
