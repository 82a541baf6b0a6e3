package datagen

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/sigbench/problem"
)

// MMSEParams configures an MMSE retriever. Sensors, Sources and Windows
// must be positive. The matching problem's filter count must equal
// Sources: the ground-truth source block is the estimation target.
type MMSEParams struct {
	Window  WindowParameters
	Sensors int
	Sources int
	Windows int
	Config  Config
}

// MMSERetriever generates windows for the minimum mean-square-error
// problem. It carries no structural matrices: the ground-truth source
// block doubles as the estimation target and is emitted with every
// window.
type MMSERetriever struct {
	mix *mixture
}

// NewMMSERetriever builds the retriever's fixed generative state from
// src.
func NewMMSERetriever(p MMSEParams, src rand.Source) (*MMSERetriever, error) {
	if err := checkDims(p.Window, p.Sensors, p.Sources, p.Windows); err != nil {
		return nil, err
	}
	return &MMSERetriever{
		mix: newMixture(p.Window, p.Sensors, p.Sources, p.Windows, src, p.Config),
	}, nil
}

// NumWindows returns the number of materialized windows.
func (r *MMSERetriever) NumWindows() int { return r.mix.numWindows() }

// Window returns the inputs for one window: the normalized observation
// block as the sole fused signal and the ground-truth source block as
// the sole global parameter. The target is an estimation reference, not
// a constraint.
func (r *MMSERetriever) Window(id int) (problem.Inputs, error) {
	y, err := r.mix.window(id)
	if err != nil {
		return problem.Inputs{}, err
	}
	return problem.Inputs{
		FusedSignals:     []*mat.Dense{y},
		GlobalParameters: []*mat.Dense{r.mix.sources},
	}, nil
}

var _ Retriever = (*MMSERetriever)(nil)
