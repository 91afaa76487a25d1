package features

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Config holds the STFT and output shape parameters.
type Config struct {
	NFFT           int
	HopLength      int
	Bins           int
	Frames         int
	AmplitudeFloor float64
}

// DefaultConfig matches the training pipeline: 2048-point FFT, hop 512,
// 128 bins by 130 frames, -120 dB floor.
func DefaultConfig() Config {
	return Config{
		NFFT:           2048,
		HopLength:      512,
		Bins:           128,
		Frames:         130,
		AmplitudeFloor: 1e-6,
	}
}

// Extractor turns waveforms into spectrograms. It is safe for concurrent use.
type Extractor struct {
	cfg    Config
	window []float64
}

// NewExtractor precomputes the analysis window.
func NewExtractor(cfg Config) *Extractor {
	// A symmetric Hann of N+1 points cut to N is the periodic Hann the
	// model was trained with.
	w := window.Hann(cfg.NFFT + 1)[:cfg.NFFT]
	return &Extractor{cfg: cfg, window: w}
}

// Config returns the extractor parameters.
func (e *Extractor) Config() Config {
	return e.cfg
}

// FrameCount is the number of STFT frames a centred transform yields for n
// samples, before padding or truncation.
func (e *Extractor) FrameCount(n int) int {
	return 1 + n/e.cfg.HopLength
}

// Extract computes the centred STFT of samples, converts magnitudes to
// decibels, keeps the first Bins frequency bins and fixes the time axis to
// Frames, zero-padding on the right or truncating.
func (e *Extractor) Extract(samples []float64) (*Spectrogram, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyWaveform
	}
	if floats.HasNaN(samples) {
		return nil, ErrNonFinite
	}
	for _, s := range samples {
		if math.IsInf(s, 0) {
			return nil, ErrNonFinite
		}
	}

	cfg := e.cfg
	spec := NewSpectrogram(cfg.Bins, cfg.Frames)
	spec.Valid = min(e.FrameCount(len(samples)), cfg.Frames)

	half := cfg.NFFT / 2
	frame := make([]float64, cfg.NFFT)

	for t := 0; t < spec.Valid; t++ {
		start := t*cfg.HopLength - half
		for i := range frame {
			j := start + i
			if j < 0 || j >= len(samples) {
				frame[i] = 0
				continue
			}
			frame[i] = samples[j] * e.window[i]
		}

		coeffs := fft.FFTReal(frame)
		for b := 0; b < cfg.Bins; b++ {
			mag := math.Max(cfg.AmplitudeFloor, cmplx.Abs(coeffs[b]))
			spec.Set(b, t, float32(20*math.Log10(mag)))
		}
	}

	return spec, nil
}
