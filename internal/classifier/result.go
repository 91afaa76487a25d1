package classifier

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var ErrEmptyOutput = errors.New("model returned no probabilities")

// Result is the response body of a successful prediction.
type Result struct {
	Emotion       string             `json:"emotion"`
	Confidence    float32            `json:"confidence"`
	Probabilities map[string]float32 `json:"probabilities"`
}

// Postprocess picks the arg-max class. Ties resolve to the lowest index.
func Postprocess(probs []float32, labels []string) (*Result, error) {
	if len(probs) == 0 {
		return nil, ErrEmptyOutput
	}
	if len(probs) != len(labels) {
		return nil, fmt.Errorf("model returned %d probabilities for %d labels", len(probs), len(labels))
	}

	v := make([]float64, len(probs))
	for i, p := range probs {
		v[i] = float64(p)
	}
	idx := floats.MaxIdx(v)

	probabilities := make(map[string]float32, len(labels))
	for i, label := range labels {
		probabilities[label] = probs[i]
	}

	return &Result{
		Emotion:       labels[idx],
		Confidence:    probs[idx],
		Probabilities: probabilities,
	}, nil
}

// Sum of the probability mapping.
func (r *Result) Sum() float64 {
	v := make([]float64, 0, len(r.Probabilities))
	for _, p := range r.Probabilities {
		v = append(v, float64(p))
	}
	return floats.Sum(v)
}
