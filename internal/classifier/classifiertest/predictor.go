// Package classifiertest provides a scripted Predictor.
package classifiertest

import (
	"sync"

	"github.com/Brownie44l1/ser-api/internal/model"
)

// Predictor returns Probs (or Err) and remembers the last input it saw.
type Predictor struct {
	Probs   []float32
	Err     error
	Classes []string
	Size    int

	mu        sync.Mutex
	calls     int
	lastInput []float32
}

// New returns a predictor with the default model shape and labels.
func New(probs ...float32) *Predictor {
	md := model.DefaultMetadata()
	return &Predictor{
		Probs:   probs,
		Classes: md.Classes,
		Size:    md.InputSize(),
	}
}

func (p *Predictor) Predict(input []float32) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastInput = append([]float32(nil), input...)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Probs, nil
}

func (p *Predictor) Labels() []string { return p.Classes }

func (p *Predictor) InputSize() int { return p.Size }

// Calls is the number of Predict invocations.
func (p *Predictor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LastInput is a copy of the most recent input tensor.
func (p *Predictor) LastInput() []float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastInput
}
