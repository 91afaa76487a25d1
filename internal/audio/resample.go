package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts a mono signal from one rate to another. Equal rates
// return the input unchanged. The output is aligned with the input and holds
// exactly ceil(len(samples)*to/from) samples.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid sample rate conversion %d -> %d", from, to)
	}
	if from == to {
		return samples, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	out, err := r.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush error: %w", err)
	}
	out = append(out, tail...)

	// Drop the filter's group delay so frame boundaries match the source.
	if delay := r.GetLatency(); delay > 0 {
		out = out[min(delay, len(out)):]
	}

	return fitLength(out, OutputLength(len(samples), from, to)), nil
}

// OutputLength is the sample count a from->to conversion of n samples yields.
func OutputLength(n, from, to int) int {
	return int(math.Ceil(float64(n) * float64(to) / float64(from)))
}

// fitLength truncates or zero-pads s to n samples.
func fitLength(s []float64, n int) []float64 {
	if len(s) >= n {
		return s[:n]
	}
	return append(s, make([]float64, n-len(s))...)
}
