package config

import "errors"

var (
	ErrEmptyModelPath = errors.New("model path must not be empty")
	ErrInvalidPort    = errors.New("server port must be greater than 0")
	ErrInvalidRate    = errors.New("audio sample rate must be greater than 0")
	ErrInvalidShape   = errors.New("feature bins and frames must be greater than 0")
	ErrInvalidFFT     = errors.New("n_fft must be a power of two covering the requested bins")
)
