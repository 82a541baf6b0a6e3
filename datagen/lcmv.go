package datagen

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/sigbench/problem"
)

// LCMVParams configures an LCMV retriever. Sensors, Sources, Windows
// and Filters must be positive; Steering defaults to Filters and must
// not exceed Sources.
type LCMVParams struct {
	Window   WindowParameters
	Sensors  int
	Sources  int
	Windows  int
	Filters  int
	Steering int // 0 means Filters
	Config   Config
}

// LCMVRetriever generates windows for the linearly-constrained
// minimum-variance problem. Beyond the shared mixture state it fixes a
// steering matrix B, the first Steering columns of the baseline mixing
// matrix, and a standard-normal constraint target H of shape
// (filters, steering); both are constant across windows.
type LCMVRetriever struct {
	mix      *mixture
	steering *mat.Dense // B: sensors × steering
	target   *mat.Dense // H: filters × steering
}

// NewLCMVRetriever builds the retriever's fixed generative state from
// src. The draw order is: mixture state first, then the constraint
// target, so two retrievers with identical parameters and seeds produce
// identical windows.
func NewLCMVRetriever(p LCMVParams, src rand.Source) (*LCMVRetriever, error) {
	if err := checkDims(p.Window, p.Sensors, p.Sources, p.Windows); err != nil {
		return nil, err
	}
	if p.Filters <= 0 {
		return nil, fmt.Errorf("datagen: filter count must be positive, got %d", p.Filters)
	}
	steering := p.Steering
	if steering == 0 {
		steering = p.Filters
	}
	if steering < 0 || steering > p.Sources {
		return nil, fmt.Errorf("datagen: steering count %d outside [1, %d sources]", steering, p.Sources)
	}

	mix := newMixture(p.Window, p.Sensors, p.Sources, p.Windows, src, p.Config)
	b := mat.DenseCopyOf(mix.base.Slice(0, p.Sensors, 0, steering))
	h := randNormal(p.Filters, steering, 1, src)

	return &LCMVRetriever{mix: mix, steering: b, target: h}, nil
}

// NumWindows returns the number of materialized windows.
func (r *LCMVRetriever) NumWindows() int { return r.mix.numWindows() }

// Window returns the inputs for one window: the normalized observation
// block as the sole fused signal, the steering matrix as the sole fused
// constant and the constraint target as the sole global parameter.
func (r *LCMVRetriever) Window(id int) (problem.Inputs, error) {
	y, err := r.mix.window(id)
	if err != nil {
		return problem.Inputs{}, err
	}
	return problem.Inputs{
		FusedSignals:     []*mat.Dense{y},
		FusedConstants:   []*mat.Dense{r.steering},
		GlobalParameters: []*mat.Dense{r.target},
	}, nil
}

var _ Retriever = (*LCMVRetriever)(nil)
