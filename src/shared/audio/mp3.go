package audio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always yields interleaved 16-bit little endian stereo
const mp3BytesPerFrame = 4

func decodeMP3(data []byte) (Waveform, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Waveform{}, errors.Mark(errors.Wrap(err, "failed to open mp3 stream"), ErrUndecodable)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return Waveform{}, errors.Mark(errors.Wrap(err, "failed to decode mp3 frames"), ErrUndecodable)
	}

	frames := len(raw) / mp3BytesPerFrame
	if frames == 0 {
		return Waveform{}, errors.Wrap(ErrUndecodable, "mp3 stream has no audio")
	}

	samples := make([]float64, frames)
	for i := range samples {
		left := int16(binary.LittleEndian.Uint16(raw[i*mp3BytesPerFrame:]))
		right := int16(binary.LittleEndian.Uint16(raw[i*mp3BytesPerFrame+2:]))
		samples[i] = (float64(left) + float64(right)) / 2 / 32768
	}

	return Waveform{
		Samples:    samples,
		SampleRate: decoder.SampleRate(),
	}, nil
}
