// Package audio decodes uploaded clips into a mono waveform at a fixed
// sample rate.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyAudio        = errors.New("audio payload is empty")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoSamples         = errors.New("audio contains no samples")
)

// Format identifies a container by its magic bytes.
type Format string

const (
	FormatWAV Format = "wav"
	FormatOGG Format = "ogg"
)

// Waveform is a mono signal with samples in [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration of the waveform.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// Sniff reports the container format of data.
func Sniff(data []byte) (Format, error) {
	switch {
	case len(data) == 0:
		return "", ErrEmptyAudio
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG, nil
	}
	return "", ErrUnsupportedFormat
}

// Decode turns an encoded clip into a mono waveform resampled to targetRate.
func Decode(data []byte, targetRate int) (w *Waveform, err error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	// The container decoders can panic on truncated or malformed input.
	defer func() {
		if r := recover(); r != nil {
			w, err = nil, fmt.Errorf("failed to decode %s: corrupt input: %v", format, r)
		}
	}()

	var (
		interleaved []float64
		channels    int
		rate        int
	)
	switch format {
	case FormatWAV:
		interleaved, channels, rate, err = decodeWAV(data)
	case FormatOGG:
		interleaved, channels, rate, err = decodeOGG(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	mono := Downmix(interleaved, channels)
	if len(mono) == 0 {
		return nil, ErrNoSamples
	}

	samples, err := Resample(mono, rate, targetRate)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return &Waveform{Samples: samples, SampleRate: targetRate}, nil
}

// Downmix averages interleaved channels into a single channel.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
