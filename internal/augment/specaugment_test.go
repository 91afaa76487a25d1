package augment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/ser-api/internal/features"
)

func filled(bins, frames int) *features.Spectrogram {
	s := features.NewSpectrogram(bins, frames)
	for i := range s.Data {
		s.Data[i] = -40
	}
	return s
}

func TestApplyInferenceIsIdentity(t *testing.T) {
	a := New(Params{FreqMaskParam: 15, TimeMaskParam: 20}, 1)
	spec := filled(128, 130)

	out := a.Apply(spec, false)
	assert.Same(t, spec, out)
	for _, v := range out.Data {
		require.Equal(t, float32(-40), v)
	}
}

func TestApplyTrainingMasksCopy(t *testing.T) {
	a := New(Params{FreqMaskParam: 15, TimeMaskParam: 20}, 42)
	spec := filled(128, 130)

	for i := 0; i < 50; i++ {
		out, m := a.apply(spec)

		assert.GreaterOrEqual(t, m.F, 0)
		assert.Less(t, m.F, 15)
		assert.Less(t, m.T, 20)
		assert.LessOrEqual(t, m.F0+m.F, 128)
		assert.LessOrEqual(t, m.T0+m.T, 130)

		for b := 0; b < out.Bins; b++ {
			for f := 0; f < out.Frames; f++ {
				masked := (b >= m.F0 && b < m.F0+m.F) || (f >= m.T0 && f < m.T0+m.T)
				if masked {
					require.Zero(t, out.At(b, f))
				} else {
					require.Equal(t, float32(-40), out.At(b, f))
				}
			}
		}
	}

	// input is never modified
	for _, v := range spec.Data {
		require.Equal(t, float32(-40), v)
	}
}

func TestApplyMask(t *testing.T) {
	spec := filled(4, 5)
	out := ApplyMask(spec, Mask{F0: 1, F: 2, T0: 4, T: 1})

	assert.Equal(t, float32(-40), out.At(0, 0))
	assert.Zero(t, out.At(1, 0))
	assert.Zero(t, out.At(2, 3))
	assert.Equal(t, float32(-40), out.At(3, 3))
	assert.Zero(t, out.At(3, 4))
}

func TestZeroParamsNeverMask(t *testing.T) {
	a := New(Params{}, 7)
	spec := filled(8, 8)
	out := a.Apply(spec, true)
	assert.Equal(t, spec.Data, out.Data)
	assert.Equal(t, Params{}, a.Config())
}
