package audio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/wav"
)

const wavFormatFloat = 3

func decodeWAV(data []byte) ([]float64, int, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, 0, errors.New("invalid wav header")
	}
	if d.WavAudioFormat == wavFormatFloat {
		return nil, 0, 0, fmt.Errorf("%w: floating point wav", ErrUnsupportedFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, err
	}
	if buf == nil || buf.Format == nil {
		return nil, 0, 0, ErrNoSamples
	}

	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, 0, 0, fmt.Errorf("%w: %d-bit wav", ErrUnsupportedFormat, bitDepth)
	}

	out := make([]float64, len(buf.Data))
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		for i, v := range buf.Data {
			out[i] = float64(v-128) / 128
		}
	} else {
		scale := float64(int64(1) << (bitDepth - 1))
		for i, v := range buf.Data {
			out[i] = float64(v) / scale
		}
	}

	return out, buf.Format.NumChannels, buf.Format.SampleRate, nil
}
