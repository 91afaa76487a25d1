// Package config loads the service configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the service configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Model    ModelConfig   `yaml:"model"`
	Audio    AudioConfig   `yaml:"audio"`
	Features FeatureConfig `yaml:"features"`
	Augment  AugmentConfig `yaml:"augment"`
	Log      LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ModelConfig points at the exported network and its metadata.
type ModelConfig struct {
	Path         string `yaml:"path"`
	MetadataPath string `yaml:"metadata_path"`
	SharedLib    string `yaml:"shared_library"` // onnxruntime .so/.dylib, empty uses the default lookup
}

// AudioConfig controls decoding.
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
}

// FeatureConfig controls spectrogram extraction.
type FeatureConfig struct {
	NFFT           int     `yaml:"n_fft"`
	HopLength      int     `yaml:"hop_length"`
	Bins           int     `yaml:"bins"`
	Frames         int     `yaml:"frames"`
	AmplitudeFloor float64 `yaml:"amplitude_floor"`
}

// AugmentConfig mirrors the SpecAugment layer parameters baked into the model.
type AugmentConfig struct {
	FreqMaskParam int `yaml:"freq_mask_param"`
	TimeMaskParam int `yaml:"time_mask_param"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the configuration the model was trained with.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			MaxUploadMB:  10,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Model: ModelConfig{
			Path:         "models/model.onnx",
			MetadataPath: "models/model_metadata.json",
		},
		Audio: AudioConfig{SampleRate: 22050},
		Features: FeatureConfig{
			NFFT:           2048,
			HopLength:      512,
			Bins:           128,
			Frames:         130,
			AmplitudeFloor: 1e-6,
		},
		Augment: AugmentConfig{FreqMaskParam: 15, TimeMaskParam: 20},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads filename over the defaults, applies environment overrides and
// validates the result. An empty filename skips the file.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("MODEL_METADATA_PATH"); v != "" {
		c.Model.MetadataPath = v
	}
	if v := os.Getenv("ONNXRUNTIME_LIB"); v != "" {
		c.Model.SharedLib = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the fields the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return ErrInvalidPort
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 10
	}
	if c.Model.Path == "" {
		return ErrEmptyModelPath
	}
	if c.Audio.SampleRate <= 0 {
		return ErrInvalidRate
	}
	f := c.Features
	if f.Bins <= 0 || f.Frames <= 0 || f.HopLength <= 0 {
		return ErrInvalidShape
	}
	if f.NFFT <= 0 || f.NFFT&(f.NFFT-1) != 0 || f.Bins > f.NFFT/2+1 {
		return ErrInvalidFFT
	}
	if f.AmplitudeFloor <= 0 {
		c.Features.AmplitudeFloor = 1e-6
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
