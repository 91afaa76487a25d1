package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var labels = []string{"angry", "happy", "neutral", "sad"}

func TestPostprocess(t *testing.T) {
	r, err := Postprocess([]float32{0.1, 0.6, 0.2, 0.1}, labels)
	require.NoError(t, err)

	assert.Equal(t, "happy", r.Emotion)
	assert.Equal(t, float32(0.6), r.Confidence)
	assert.Len(t, r.Probabilities, 4)
	assert.Equal(t, float32(0.2), r.Probabilities["neutral"])
	assert.InDelta(t, 1.0, r.Sum(), 1e-6)
}

func TestPostprocessConfidenceIsMax(t *testing.T) {
	cases := [][]float32{
		{0.97, 0.01, 0.01, 0.01},
		{0.25, 0.25, 0.25, 0.25},
		{0, 0, 0, 1},
		{0.3, 0.1, 0.3, 0.3},
	}
	for _, probs := range cases {
		r, err := Postprocess(probs, labels)
		require.NoError(t, err)
		for _, p := range r.Probabilities {
			assert.LessOrEqual(t, p, r.Confidence)
		}
		assert.InDelta(t, 1.0, r.Sum(), 1e-6)
	}
}

func TestPostprocessTieTakesFirst(t *testing.T) {
	r, err := Postprocess([]float32{0.25, 0.25, 0.25, 0.25}, labels)
	require.NoError(t, err)
	assert.Equal(t, "angry", r.Emotion)

	r, err = Postprocess([]float32{0.1, 0.3, 0.3, 0.3}, labels)
	require.NoError(t, err)
	assert.Equal(t, "happy", r.Emotion)
}

func TestPostprocessErrors(t *testing.T) {
	_, err := Postprocess(nil, labels)
	assert.ErrorIs(t, err, ErrEmptyOutput)

	_, err = Postprocess([]float32{0.5, 0.5}, labels)
	assert.Error(t, err)
}
