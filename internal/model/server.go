// Package model runs the exported emotion network with ONNX Runtime.
package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Server owns the ONNX Runtime session and its pre-allocated tensors. The
// tensors are shared, so Predict calls are serialised.
type Server struct {
	Metadata Metadata

	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewServer initialises the runtime and loads the model at modelPath.
// sharedLib overrides the onnxruntime library location when non-empty.
func NewServer(modelPath string, metadata Metadata, sharedLib string) (*Server, error) {
	if err := metadata.Validate(); err != nil {
		return nil, err
	}

	if sharedLib != "" {
		ort.SetSharedLibraryPath(sharedLib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputShape := ort.NewShape(metadata.InputShape...)
	outputShape := ort.NewShape(metadata.OutputShape...)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Server{
		Metadata:     metadata,
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Labels returns the class names in output order.
func (s *Server) Labels() []string {
	return s.Metadata.Classes
}

// InputSize is the element count Predict expects.
func (s *Server) InputSize() int {
	return s.Metadata.InputSize()
}

// Predict runs one forward pass and returns class probabilities.
func (s *Server) Predict(inputData []float32) ([]float32, error) {
	if len(inputData) != s.Metadata.InputSize() {
		return nil, fmt.Errorf("%w: expected %d values, got %d",
			ErrShapeMismatch, s.Metadata.InputSize(), len(inputData))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.inputTensor.GetData(), inputData)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	n := len(s.Metadata.Classes)
	out := make([]float32, n)
	copy(out, s.outputTensor.GetData()[:n])

	if s.Metadata.OutputActivation == ActivationLogits {
		out = Softmax(out)
	}
	return out, nil
}

// Close releases the tensors, the session and the runtime environment.
func (s *Server) Close() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}
