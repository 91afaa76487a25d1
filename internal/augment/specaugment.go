// Package augment implements SpecAugment frequency and time masking. The
// layer only alters its input while training; inference passes through.
package augment

import (
	"math/rand"
	"sync"

	"github.com/Brownie44l1/ser-api/internal/features"
)

// Params is the serialisable layer configuration.
type Params struct {
	FreqMaskParam int `json:"freq_mask_param" yaml:"freq_mask_param"`
	TimeMaskParam int `json:"time_mask_param" yaml:"time_mask_param"`
}

// Mask records the band that was zeroed on each axis.
type Mask struct {
	F0, F int
	T0, T int
}

// SpecAugment masks one random frequency band and one random time band.
type SpecAugment struct {
	params Params

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a layer seeded with seed.
func New(params Params, seed int64) *SpecAugment {
	return &SpecAugment{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Config returns the layer parameters.
func (a *SpecAugment) Config() Params {
	return a.params
}

// Apply returns spec unchanged when training is false. Otherwise it returns
// a masked copy.
func (a *SpecAugment) Apply(spec *features.Spectrogram, training bool) *features.Spectrogram {
	if !training {
		return spec
	}
	out, _ := a.apply(spec)
	return out
}

func (a *SpecAugment) apply(spec *features.Spectrogram) (*features.Spectrogram, Mask) {
	a.mu.Lock()
	m := Mask{}
	m.F = a.intn(a.params.FreqMaskParam)
	m.F0 = a.intn(spec.Bins - m.F)
	m.T = a.intn(a.params.TimeMaskParam)
	m.T0 = a.intn(spec.Frames - m.T)
	a.mu.Unlock()

	return ApplyMask(spec, m), m
}

// intn is rand.Intn that treats a non-positive bound as an empty range.
func (a *SpecAugment) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return a.rng.Intn(n)
}

// ApplyMask zeroes bins [F0, F0+F) and frames [T0, T0+T) in a copy of spec.
func ApplyMask(spec *features.Spectrogram, m Mask) *features.Spectrogram {
	out := spec.Clone()
	for b := m.F0; b < m.F0+m.F && b < out.Bins; b++ {
		for f := 0; f < out.Frames; f++ {
			out.Set(b, f, 0)
		}
	}
	for f := m.T0; f < m.T0+m.T && f < out.Frames; f++ {
		for b := 0; b < out.Bins; b++ {
			out.Set(b, f, 0)
		}
	}
	return out
}
