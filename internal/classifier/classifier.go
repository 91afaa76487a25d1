// Package classifier wires decoding, feature extraction and inference into
// the single prediction pipeline.
package classifier

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Brownie44l1/ser-api/internal/audio"
	"github.com/Brownie44l1/ser-api/internal/augment"
	"github.com/Brownie44l1/ser-api/internal/features"
	"github.com/Brownie44l1/ser-api/internal/metrics"
)

// Predictor runs the network on a flattened input tensor.
type Predictor interface {
	Predict(input []float32) ([]float32, error)
	Labels() []string
	InputSize() int
}

// Config holds the pipeline parameters.
type Config struct {
	SampleRate int
	Features   features.Config
	Augment    augment.Params
	// Model names the loaded network in health reports.
	Model string
}

// Frontend turns an encoded clip into the model's input spectrogram. The
// HTTP preview, the CLI and Classify all share it.
type Frontend struct {
	sampleRate int
	extractor  *features.Extractor
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewFrontend builds the decode and extract stages. logger and m may be nil.
func NewFrontend(sampleRate int, fc features.Config, logger *zap.Logger, m *metrics.Metrics) *Frontend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Frontend{
		sampleRate: sampleRate,
		extractor:  features.NewExtractor(fc),
		logger:     logger,
		metrics:    m,
	}
}

// Spectrogram decodes data and extracts its feature matrix.
func (f *Frontend) Spectrogram(data []byte) (*features.Spectrogram, error) {
	start := time.Now()
	wave, err := audio.Decode(data, f.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	f.observe("decode", start)

	start = time.Now()
	spec, err := f.extractor.Extract(wave.Samples)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	f.observe("extract", start)

	f.logger.Debug("extracted spectrogram",
		zap.Duration("duration", wave.Duration()),
		zap.Int("frames", f.extractor.FrameCount(len(wave.Samples))),
		zap.Int("kept_frames", spec.Valid),
		zap.Any("stats", spec.Stats()),
	)
	return spec, nil
}

func (f *Frontend) observe(stage string, start time.Time) {
	if f.metrics != nil {
		f.metrics.ObserveStage(stage, time.Since(start).Seconds())
	}
}

// Classifier is safe for concurrent use; inference itself is serialised by
// the predictor.
type Classifier struct {
	*Frontend

	cfg       Config
	predictor Predictor
	augment   *augment.SpecAugment
}

// New builds a classifier. m may be nil.
func New(cfg Config, predictor Predictor, logger *zap.Logger, m *metrics.Metrics) *Classifier {
	return &Classifier{
		Frontend:  NewFrontend(cfg.SampleRate, cfg.Features, logger, m),
		cfg:       cfg,
		predictor: predictor,
		augment:   augment.New(cfg.Augment, time.Now().UnixNano()),
	}
}

// Labels returns the class names in model output order.
func (c *Classifier) Labels() []string {
	return c.predictor.Labels()
}

// Model is the configured model name.
func (c *Classifier) Model() string {
	return c.cfg.Model
}

// Classify runs the full pipeline on an encoded clip.
func (c *Classifier) Classify(data []byte) (*Result, error) {
	spec, err := c.Spectrogram(data)
	if err != nil {
		return nil, err
	}

	spec = c.augment.Apply(spec, false)

	input, err := spec.Tensor(c.predictor.InputSize())
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}

	start := time.Now()
	probs, err := c.predictor.Predict(input)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	c.observe("predict", start)

	result, err := Postprocess(probs, c.predictor.Labels())
	if err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}

	if sum := result.Sum(); math.Abs(sum-1) > 1e-3 {
		c.logger.Warn("probabilities do not sum to one", zap.Float64("sum", sum))
	}

	if c.metrics != nil {
		c.metrics.ObservePrediction(result.Emotion, float64(result.Confidence))
	}
	c.logger.Info("prediction successful",
		zap.String("emotion", result.Emotion),
		zap.Float32("confidence", result.Confidence),
	)
	return result, nil
}
