package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrShapeMismatch = errors.New("tensor shape mismatch")
	ErrLabelMismatch = errors.New("class count does not match model output")
)

const (
	ActivationSoftmax = "softmax"
	ActivationLogits  = "logits"
)

// Metadata describes the exported network's tensors and class order.
type Metadata struct {
	InputShape       []int64  `json:"input_shape"`
	OutputShape      []int64  `json:"output_shape"`
	Classes          []string `json:"classes"`
	InputName        string   `json:"input_name"`
	OutputName       string   `json:"output_name"`
	OutputActivation string   `json:"output_activation"`
}

// DefaultMetadata is the shape and label order the emotion model was trained with.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:       []int64{1, 128, 130, 1},
		OutputShape:      []int64{1, 4},
		Classes:          []string{"angry", "happy", "neutral", "sad"},
		InputName:        "input",
		OutputName:       "output",
		OutputActivation: ActivationSoftmax,
	}
}

// LoadMetadata reads a metadata JSON file over the defaults. An empty path
// returns the defaults.
func LoadMetadata(path string) (Metadata, error) {
	metadata := DefaultMetadata()
	if path == "" {
		return metadata, metadata.Validate()
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

// InputSize is the element count of the input tensor.
func (m Metadata) InputSize() int {
	return volume(m.InputShape)
}

// OutputSize is the element count of the output tensor.
func (m Metadata) OutputSize() int {
	return volume(m.OutputShape)
}

// Validate checks that the tensor shapes and labels agree.
func (m Metadata) Validate() error {
	if len(m.InputShape) == 0 || m.InputSize() <= 0 {
		return fmt.Errorf("%w: input %v", ErrShapeMismatch, m.InputShape)
	}
	if len(m.OutputShape) == 0 || m.OutputSize() <= 0 {
		return fmt.Errorf("%w: output %v", ErrShapeMismatch, m.OutputShape)
	}
	if last := m.OutputShape[len(m.OutputShape)-1]; int(last) != len(m.Classes) {
		return fmt.Errorf("%w: %d outputs, %d classes", ErrLabelMismatch, last, len(m.Classes))
	}
	switch m.OutputActivation {
	case "", ActivationSoftmax, ActivationLogits:
	default:
		return fmt.Errorf("unknown output activation %q", m.OutputActivation)
	}
	if m.InputName == "" || m.OutputName == "" {
		return errors.New("input and output tensor names are required")
	}
	return nil
}

func volume(shape []int64) int {
	n := 1
	for _, d := range shape {
		n *= int(d)
	}
	return n
}
