// Package problem defines the shared contract between data retrievers
// and optimization problems: the per-window inputs container, the
// problem interface, and the two closed-form estimation problems used
// to benchmark adaptive signal-fusion algorithms.
package problem

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch reports inputs whose matrix dimensions are mutually
// incompatible. It is a caller-configuration error: nothing in this
// package attempts to broadcast or repair shapes.
var ErrShapeMismatch = errors.New("problem: shape mismatch")

// ErrNonFinite reports inputs containing NaN or infinite entries.
var ErrNonFinite = errors.New("problem: non-finite matrix entry")

// Inputs bundles the matrices an optimization problem needs for one
// window of data. Order is significant in every slice: solvers index by
// position, not name.
//
// Inputs are constructed fresh per window by a retriever and must be
// treated as read-only once handed to a problem.
type Inputs struct {
	// FusedSignals holds the observed signal blocks for this window,
	// each shaped (sensors, samples).
	FusedSignals []*mat.Dense

	// FusedConstants holds structural matrices (steering or constraint
	// matrices) that stay constant across windows.
	FusedConstants []*mat.Dense

	// GlobalParameters holds side information that is not re-derived
	// from the signals, such as known source references or constraint
	// targets.
	GlobalParameters []*mat.Dense
}

// Validate checks the container invariants: every matrix is non-nil and
// finite, all fused signals agree on both dimensions, and every fused
// constant has as many rows as the signals have sensors. It does not
// check problem-specific shapes; solvers do that against their own
// contract before solving.
func (in Inputs) Validate() error {
	if len(in.FusedSignals) == 0 {
		return fmt.Errorf("%w: no fused signals", ErrShapeMismatch)
	}
	for i, y := range in.FusedSignals {
		if y == nil {
			return fmt.Errorf("%w: fused signal %d is nil", ErrShapeMismatch, i)
		}
	}
	sensors, samples := in.FusedSignals[0].Dims()
	for i, y := range in.FusedSignals {
		r, c := y.Dims()
		if r != sensors || c != samples {
			return fmt.Errorf("%w: fused signal %d is %dx%d, want %dx%d",
				ErrShapeMismatch, i, r, c, sensors, samples)
		}
		if err := checkFinite(y, fmt.Sprintf("fused signal %d", i)); err != nil {
			return err
		}
	}
	for i, b := range in.FusedConstants {
		if b == nil {
			return fmt.Errorf("%w: fused constant %d is nil", ErrShapeMismatch, i)
		}
		if r, _ := b.Dims(); r != sensors {
			return fmt.Errorf("%w: fused constant %d has %d rows, signals have %d sensors",
				ErrShapeMismatch, i, r, sensors)
		}
		if err := checkFinite(b, fmt.Sprintf("fused constant %d", i)); err != nil {
			return err
		}
	}
	for i, g := range in.GlobalParameters {
		if g == nil {
			return fmt.Errorf("%w: global parameter %d is nil", ErrShapeMismatch, i)
		}
		if err := checkFinite(g, fmt.Sprintf("global parameter %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func checkFinite(m *mat.Dense, name string) error {
	raw := m.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		for _, v := range raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s", ErrNonFinite, name)
			}
		}
	}
	return nil
}

// ConvergenceParameters configures problems whose solve routine is
// iterative. The closed-form problems in this package accept and ignore
// them; they are part of the shared contract so iterative problems can
// be driven through the same interface.
type ConvergenceParameters struct {
	MaxIterations      int
	ObjectiveTolerance float64
	ArgumentTolerance  float64
}

// SolveOptions carries the optional arguments of Problem.Solve. A nil
// *SolveOptions is equivalent to the zero value.
type SolveOptions struct {
	// SaveSolution caches the returned estimator on the problem
	// instance for later retrieval via SavedSolution.
	SaveSolution bool

	// Convergence and InitialEstimate configure iterative solvers.
	// Closed-form problems ignore both.
	Convergence     *ConvergenceParameters
	InitialEstimate *mat.Dense
}

// ResidualFunc maps a candidate estimator to a residual matrix that is
// (numerically) all-zero when the corresponding constraint holds.
type ResidualFunc func(x *mat.Dense) *mat.Dense

// Constraints holds the residual functions of a problem's constraint
// classes. A nil function means the problem is unconstrained in that
// class.
type Constraints struct {
	Equality   ResidualFunc
	Inequality ResidualFunc
}

// Problem is the contract every optimization problem implements. A
// problem instance is stateless apart from its configuration and the
// optional saved solution.
type Problem interface {
	// Solve computes the optimal estimator for the given inputs. The
	// returned matrix always has Filters() columns.
	Solve(inputs Inputs, opts *SolveOptions) (*mat.Dense, error)

	// EvaluateObjective returns the problem's cost at estimator x,
	// using the same inputs the statistics were derived from.
	EvaluateObjective(x *mat.Dense, inputs Inputs) (float64, error)

	// Constraints returns the problem's constraint residuals for the
	// given inputs.
	Constraints(inputs Inputs) Constraints

	// Filters returns the configured estimator column count.
	Filters() int

	// SavedSolution returns the estimator cached by the most recent
	// Solve call with SaveSolution set, or nil.
	SavedSolution() *mat.Dense
}

// solutionCache implements the saved-solution half of the Problem
// contract; concrete problems embed it.
type solutionCache struct {
	saved *mat.Dense
}

func (c *solutionCache) store(x *mat.Dense, opts *SolveOptions) {
	if opts != nil && opts.SaveSolution {
		c.saved = mat.DenseCopyOf(x)
	}
}

// SavedSolution returns the cached estimator, or nil if no Solve call
// has saved one.
func (c *solutionCache) SavedSolution() *mat.Dense {
	return c.saved
}
