// Package render draws spectrograms as grayscale PNG previews.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/Brownie44l1/ser-api/internal/features"
)

// Image maps the spectrogram onto a Frames x Bins grayscale image with the
// lowest frequency bin on the bottom row. Values are min-max normalised.
func Image(spec *features.Spectrogram) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, spec.Frames, spec.Bins))

	st := spec.Stats()
	span := st.MaxDB - st.MinDB

	for b := 0; b < spec.Bins; b++ {
		y := spec.Bins - 1 - b
		for f := 0; f < spec.Frames; f++ {
			var v uint8
			if span > 0 {
				v = uint8((float64(spec.At(b, f)) - st.MinDB) / span * 255)
			}
			img.SetGray(f, y, color.Gray{Y: v})
		}
	}
	return img
}

// PNG writes the spectrogram scaled to width x height. A zero dimension
// keeps the aspect ratio; both zero keeps the native size.
func PNG(w io.Writer, spec *features.Spectrogram, width, height uint) error {
	var img image.Image = Image(spec)
	if width != 0 || height != 0 {
		img = resize.Resize(width, height, img, resize.Lanczos3)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
