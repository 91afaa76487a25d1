// Package features computes the fixed-size linear log-magnitude spectrogram
// the emotion model consumes.
package features

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyWaveform = errors.New("waveform is empty")
	ErrNonFinite     = errors.New("waveform contains non-finite samples")
	ErrShapeMismatch = errors.New("spectrogram shape mismatch")
)

// Spectrogram is a Bins x Frames matrix of decibel values stored bin-major.
// Valid counts the frames computed from audio; frames past it are padding.
type Spectrogram struct {
	Bins   int
	Frames int
	Valid  int
	Data   []float32
}

// NewSpectrogram allocates a zeroed spectrogram.
func NewSpectrogram(bins, frames int) *Spectrogram {
	return &Spectrogram{
		Bins:   bins,
		Frames: frames,
		Data:   make([]float32, bins*frames),
	}
}

// At returns the value at the given frequency bin and time frame.
func (s *Spectrogram) At(bin, frame int) float32 {
	return s.Data[bin*s.Frames+frame]
}

// Set stores v at the given frequency bin and time frame.
func (s *Spectrogram) Set(bin, frame int, v float32) {
	s.Data[bin*s.Frames+frame] = v
}

// Clone returns a deep copy.
func (s *Spectrogram) Clone() *Spectrogram {
	c := *s
	c.Data = append([]float32(nil), s.Data...)
	return &c
}

// Tensor returns the data laid out as a [1, Bins, Frames, 1] tensor, checking
// it against the expected element count.
func (s *Spectrogram) Tensor(want int) ([]float32, error) {
	if len(s.Data) != want || s.Bins*s.Frames != want {
		return nil, fmt.Errorf("%w: have %dx%d, model expects %d values",
			ErrShapeMismatch, s.Bins, s.Frames, want)
	}
	return s.Data, nil
}

// Stats summarises the decibel range.
type Stats struct {
	MinDB  float64 `json:"min_db"`
	MaxDB  float64 `json:"max_db"`
	MeanDB float64 `json:"mean_db"`
}

// Stats computes min, max and mean over every cell.
func (s *Spectrogram) Stats() Stats {
	if len(s.Data) == 0 {
		return Stats{}
	}
	v := make([]float64, len(s.Data))
	for i, x := range s.Data {
		v[i] = float64(x)
	}
	return Stats{
		MinDB:  floats.Min(v),
		MaxDB:  floats.Max(v),
		MeanDB: floats.Sum(v) / float64(len(v)),
	}
}
