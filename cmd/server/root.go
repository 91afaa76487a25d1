package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/ser-api/internal/augment"
	"github.com/Brownie44l1/ser-api/internal/classifier"
	"github.com/Brownie44l1/ser-api/internal/config"
	"github.com/Brownie44l1/ser-api/internal/features"
	"github.com/Brownie44l1/ser-api/internal/logging"
	"github.com/Brownie44l1/ser-api/internal/metrics"
	"github.com/Brownie44l1/ser-api/internal/model"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ser-api",
		Short:         "Speech emotion recognition service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	root.AddCommand(newServeCmd(), newClassifyCmd(), newSpectrogramCmd())
	return root
}

// setup loads the config and builds the logger every command shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func featureConfig(cfg *config.Config) features.Config {
	return features.Config{
		NFFT:           cfg.Features.NFFT,
		HopLength:      cfg.Features.HopLength,
		Bins:           cfg.Features.Bins,
		Frames:         cfg.Features.Frames,
		AmplitudeFloor: cfg.Features.AmplitudeFloor,
	}
}

// loadClassifier brings up the ONNX session and the pipeline around it.
// The caller closes the returned server.
func loadClassifier(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*classifier.Classifier, *model.Server, error) {
	metadata, err := model.LoadMetadata(cfg.Model.MetadataPath)
	if err != nil {
		return nil, nil, err
	}

	fc := featureConfig(cfg)
	if want := fc.Bins * fc.Frames; want != metadata.InputSize() {
		return nil, nil, fmt.Errorf("%w: features produce %d values, model takes %v",
			model.ErrShapeMismatch, want, metadata.InputShape)
	}

	logger.Info("loading model", zap.String("path", cfg.Model.Path))
	srv, err := model.NewServer(cfg.Model.Path, metadata, cfg.Model.SharedLib)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize model server: %w", err)
	}

	c := classifier.New(classifier.Config{
		SampleRate: cfg.Audio.SampleRate,
		Features:   fc,
		Augment: augment.Params{
			FreqMaskParam: cfg.Augment.FreqMaskParam,
			TimeMaskParam: cfg.Augment.TimeMaskParam,
		},
		Model: filepath.Base(cfg.Model.Path),
	}, srv, logger, m)

	logger.Info("model loaded",
		zap.Strings("classes", metadata.Classes),
		zap.Int64s("input_shape", metadata.InputShape),
	)
	return c, srv, nil
}
