package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/ser-api/internal/features"
)

func ramp() *features.Spectrogram {
	s := features.NewSpectrogram(4, 3)
	for b := 0; b < 4; b++ {
		for f := 0; f < 3; f++ {
			s.Set(b, f, float32(-120+40*b))
		}
	}
	return s
}

func TestImage(t *testing.T) {
	img := Image(ramp())

	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	// bin 0 (quietest) at the bottom, bin 3 (loudest) at the top
	assert.Equal(t, uint8(0), img.GrayAt(0, 3).Y)
	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
}

func TestImageFlat(t *testing.T) {
	img := Image(features.NewSpectrogram(2, 2))
	assert.Equal(t, uint8(0), img.GrayAt(1, 1).Y)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, ramp(), 30, 40))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestPNGNativeSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, ramp(), 0, 0))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}
