package datagen

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/sigbench/stats"
)

// mixture is the generative state shared by the synthetic retrievers:
// a noisy time-varying mixture of sources observed by the sensors,
//
//	Y(w) = (A0 + Δ·weight[w])·D + noise,
//
// where only the mixing matrix varies with the window index. The noise
// block is drawn once and reused for every window, modeling stationary
// sensor noise under non-stationary signal coupling. All fields are
// fixed at construction and read-only afterwards.
type mixture struct {
	sources *mat.Dense // D: sources × samples
	base    *mat.Dense // A0: sensors × sources
	drift   *mat.Dense // Δ: sensors × sources, ‖Δ‖_F = DiffVar·‖A0‖_F
	noise   *mat.Dense // sensors × samples
	weights []float64  // one drift weight per window
}

// newMixture draws the generative state from src in a fixed order:
// sources, baseline mixing matrix, drift matrix, noise. Callers drawing
// further matrices from src must do so after this returns, so that the
// stream layout is stable across retriever variants.
func newMixture(window WindowParameters, sensors, sources, windows int, src rand.Source, cfg Config) *mixture {
	cfg = cfg.withDefaults()
	samples := window.WindowLength

	d := randNormal(sources, samples, cfg.SignalVar, src)
	base := randNormal(sensors, sources, cfg.MixtureVar, src)
	drift := randNormal(sensors, sources, cfg.MixtureVar, src)
	drift.Scale(cfg.DiffVar*mat.Norm(base, 2)/mat.Norm(drift, 2), drift)
	noise := randNormal(sensors, samples, cfg.NoiseVar, src)

	return &mixture{
		sources: d,
		base:    base,
		drift:   drift,
		noise:   noise,
		weights: driftWeights(windows),
	}
}

// numWindows returns the number of windows the drift-weight sequence
// materializes. Segment truncation can leave this slightly below the
// requested window count.
func (m *mixture) numWindows() int { return len(m.weights) }

// window synthesizes the normalized observation block for one window:
// the drifted mixture of the sources plus the shared noise, shifted and
// scaled to zero mean and unit variance per sensor row.
func (m *mixture) window(id int) (*mat.Dense, error) {
	if id < 0 || id >= len(m.weights) {
		return nil, ErrWindowOutOfRange
	}
	sensors, sources := m.base.Dims()
	_, samples := m.sources.Dims()

	a := mat.NewDense(sensors, sources, nil)
	a.Scale(m.weights[id], m.drift)
	a.Add(m.base, a)

	y := mat.NewDense(sensors, samples, nil)
	y.Mul(a, m.sources)
	y.Add(y, m.noise)
	return stats.Normalize(y), nil
}

// driftWeights precomputes the per-window drift-weight sequence: a
// piecewise-linear sawtooth ramping from 0 toward (never reaching) 1
// over three segments covering 50%, 30% and 20% of the timeline, with a
// hard reset to 0 at each segment boundary. Fewer than ten windows get
// no drift at all. Segment lengths are truncated to integers, so the
// concatenation can fall short of the requested count.
func driftWeights(windows int) []float64 {
	if windows < 10 {
		return make([]float64, windows)
	}
	weights := make([]float64, 0, windows)
	for _, tenths := range []int{5, 3, 2} {
		n := tenths * windows / 10
		for i := 0; i < n; i++ {
			weights = append(weights, float64(i)/float64(n))
		}
	}
	return weights
}
