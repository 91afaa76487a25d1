// Package audiotest builds in-memory WAV clips for tests.
package audiotest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Tone returns n samples of a sine at freq Hz with amplitude amp.
func Tone(n, rate int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

// WAV encodes interleaved samples in [-1, 1] as 16-bit PCM.
func WAV(tb testing.TB, samples []float64, rate, channels int) []byte {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create wav: %v", err)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(s * 32767))
	}

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("close wav encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		tb.Fatalf("close wav file: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read wav: %v", err)
	}
	return out
}

// ToneWAV is a mono tone of the given length in seconds.
func ToneWAV(tb testing.TB, seconds float64, rate int) []byte {
	tb.Helper()
	n := int(seconds * float64(rate))
	return WAV(tb, Tone(n, rate, 440, 0.5), rate, 1)
}
