package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.Equal(t, 2048, cfg.Features.NFFT)
	assert.Equal(t, 512, cfg.Features.HopLength)
	assert.Equal(t, 128, cfg.Features.Bins)
	assert.Equal(t, 130, cfg.Features.Frames)
	assert.Equal(t, 1e-6, cfg.Features.AmplitudeFloor)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout: 5s
model:
  path: /srv/model.onnx
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/srv/model.onnx", cfg.Model.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, 130, cfg.Features.Frames)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("MODEL_PATH", "/tmp/m.onnx")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/tmp/m.onnx", cfg.Model.Path)
}

func TestLoadBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Features.NFFT = 1000
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidFFT)

	cfg = Default()
	cfg.Features.Bins = 2000
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidFFT)

	cfg = Default()
	cfg.Model.Path = ""
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyModelPath)

	cfg = Default()
	cfg.Server.Port = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPort)

	cfg = Default()
	cfg.Features.Frames = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidShape)
}
