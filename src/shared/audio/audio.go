package audio

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrUndecodable       = errors.New("audio could not be decoded")
)

// Waveform is mono audio normalized to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

func (w Waveform) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

type Format string

const (
	WAV Format = "wav"
	MP3 Format = "mp3"
)

var allowedFormats = map[string]Format{
	"wav": WAV,
	"mp3": MP3,
}

// FormatOf checks the extension after the last dot against the allow-list.
func FormatOf(filename string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", false
	}

	format, ok := allowedFormats[strings.ToLower(ext)]
	return format, ok
}

// Decode turns an uploaded file's bytes into a mono waveform at its native rate.
func Decode(format Format, data []byte) (Waveform, error) {
	switch format {
	case WAV:
		return decodeWAV(data)
	case MP3:
		return decodeMP3(data)
	default:
		return Waveform{}, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
}

// Load decodes and resamples to sampleRate, like librosa.load(path, sr=sampleRate).
func Load(format Format, data []byte, sampleRate int) (Waveform, error) {
	waveform, err := Decode(format, data)
	if err != nil {
		return Waveform{}, err
	}

	return Resample(waveform, sampleRate)
}
