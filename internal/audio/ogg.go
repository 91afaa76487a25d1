package audio

import (
	"bytes"

	"github.com/jfreymuth/oggvorbis"
)

func decodeOGG(data []byte) ([]float64, int, int, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out, format.Channels, format.SampleRate, nil
}
