package datagen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed+1)
}

func frobenius(m *mat.Dense) float64 {
	return mat.Norm(m, 2)
}

func TestDriftWeights(t *testing.T) {
	t.Parallel()

	t.Run("twenty windows form a three-segment sawtooth", func(t *testing.T) {
		t.Parallel()
		w := driftWeights(20)
		require.Len(t, w, 20)

		for i, v := range w {
			assert.GreaterOrEqual(t, v, 0.0, "weight %d", i)
			assert.Less(t, v, 1.0, "weight %d", i)
		}

		// Exactly two downward discontinuities, at the 50% and 80%
		// segment boundaries.
		var drops []int
		for i := 1; i < len(w); i++ {
			if w[i] < w[i-1] {
				drops = append(drops, i)
			}
		}
		assert.Equal(t, []int{10, 16}, drops)

		// Each segment ramps linearly from zero.
		assert.Equal(t, 0.0, w[0])
		assert.InDelta(t, 0.1, w[1], 1e-15)
		assert.Equal(t, 0.0, w[10])
		assert.InDelta(t, 1.0/6, w[11], 1e-15)
		assert.Equal(t, 0.0, w[16])
		assert.InDelta(t, 0.25, w[17], 1e-15)
	})

	t.Run("fewer than ten windows mean no drift", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{1, 5, 9} {
			w := driftWeights(n)
			require.Len(t, w, n, "n=%d", n)
			for i, v := range w {
				assert.Equal(t, 0.0, v, "n=%d weight %d", n, i)
			}
		}
	})

	t.Run("segment truncation can shorten the sequence", func(t *testing.T) {
		t.Parallel()
		// 11 windows: segments of 5, 3 and 2 leave only 10 weights.
		assert.Len(t, driftWeights(11), 10)
		// Multiples of ten partition exactly.
		assert.Len(t, driftWeights(30), 30)
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	t.Run("zero fields take defaults", func(t *testing.T) {
		t.Parallel()
		c := Config{}.withDefaults()
		assert.Equal(t, DefaultSignalVar, c.SignalVar)
		assert.Equal(t, DefaultNoiseVar, c.NoiseVar)
		assert.Equal(t, DefaultMixtureVar, c.MixtureVar)
		assert.Equal(t, DefaultDiffVar, c.DiffVar)
	})

	t.Run("set fields are preserved", func(t *testing.T) {
		t.Parallel()
		c := Config{SignalVar: 2, NoiseVar: 0.5, MixtureVar: 1, DiffVar: 0.25}.withDefaults()
		assert.Equal(t, Config{SignalVar: 2, NoiseVar: 0.5, MixtureVar: 1, DiffVar: 0.25}, c)
	})
}

func TestStationarySetting(t *testing.T) {
	t.Parallel()

	w := StationarySetting(5000, 300)
	assert.Equal(t, WindowParameters{WindowLength: 5000, WindowReuse: 300}, w)
}

func TestMixtureDriftScale(t *testing.T) {
	t.Parallel()

	// The drift matrix is renormalized so its Frobenius norm is DiffVar
	// times the baseline's, regardless of the raw draw.
	src := newTestSource(42)
	m := newMixture(WindowParameters{WindowLength: 100}, 6, 3, 20, src, Config{DiffVar: 0.5})

	baseNorm := frobenius(m.base)
	driftNorm := frobenius(m.drift)
	assert.InDelta(t, 0.5*baseNorm, driftNorm, 1e-12*baseNorm)
}
