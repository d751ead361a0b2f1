package audio

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmAudioFormat = 1

// PCM is integer audio as stored in a WAV file.
type PCM struct {
	Data        []int
	NumChannels int
	SampleRate  int
	BitDepth    int
}

// Frames is the number of samples per channel.
func (p PCM) Frames() int {
	if p.NumChannels == 0 {
		return 0
	}
	return len(p.Data) / p.NumChannels
}

// MonoValues averages channels into raw sample values, keeping the integer scale.
func (p PCM) MonoValues() []float64 {
	frames := p.Frames()
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < p.NumChannels; c++ {
			sum += p.Data[i*p.NumChannels+c]
		}
		out[i] = float64(sum) / float64(p.NumChannels)
	}
	return out
}

// Waveform scales MonoValues into [-1, 1] by the bit depth.
func (p PCM) Waveform() Waveform {
	samples := p.MonoValues()
	scale := math.Pow(2, float64(p.BitDepth-1))
	for i := range samples {
		samples[i] /= scale
	}

	return Waveform{
		Samples:    samples,
		SampleRate: p.SampleRate,
	}
}

func ReadPCM(r io.ReadSeeker) (PCM, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return PCM{}, errors.Wrap(ErrUndecodable, "not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return PCM{}, errors.Mark(errors.Wrap(err, "failed to read PCM buffer"), ErrUndecodable)
	}

	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return PCM{}, errors.Wrap(ErrUndecodable, "wav file has no channels")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}

	return PCM{
		Data:        buf.Data,
		NumChannels: buf.Format.NumChannels,
		SampleRate:  buf.Format.SampleRate,
		BitDepth:    bitDepth,
	}, nil
}

func ReadPCMFile(path string) (PCM, error) {
	file, err := os.Open(path)
	if err != nil {
		return PCM{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	pcm, err := ReadPCM(file)
	if err != nil {
		return PCM{}, errors.Wrapf(err, "failed to read %s", path)
	}

	return pcm, nil
}

func decodeWAV(data []byte) (Waveform, error) {
	pcm, err := ReadPCM(bytes.NewReader(data))
	if err != nil {
		return Waveform{}, err
	}

	return pcm.Waveform(), nil
}

// WritePCM writes 16-bit (or pcm.BitDepth) integer samples to w.
func WritePCM(w io.WriteSeeker, pcm PCM) error {
	encoder := wav.NewEncoder(w, pcm.SampleRate, pcm.BitDepth, pcm.NumChannels, pcmAudioFormat)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: pcm.NumChannels,
			SampleRate:  pcm.SampleRate,
		},
		Data:           pcm.Data,
		SourceBitDepth: pcm.BitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write wav samples")
	}

	if err := encoder.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize wav header")
	}

	return nil
}

func WritePCMFile(path string, pcm PCM) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if err := WritePCM(file, pcm); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return file.Close()
}

// ToPCM16 clips a waveform into 16-bit mono PCM.
func ToPCM16(w Waveform) PCM {
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		v := math.Round(s * 32767)
		data[i] = int(math.Max(-32768, math.Min(32767, v)))
	}

	return PCM{
		Data:        data,
		NumChannels: 1,
		SampleRate:  w.SampleRate,
		BitDepth:    16,
	}
}

// EncodeWAV renders a waveform as 16-bit mono WAV bytes. The wav encoder
// seeks back to patch the header, so it goes through a temp file.
func EncodeWAV(w Waveform) ([]byte, error) {
	file, err := os.CreateTemp("", "encode-*.wav")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp wav file")
	}
	defer os.Remove(file.Name())

	if err := WritePCM(file, ToPCM16(w)); err != nil {
		_ = file.Close()
		return nil, err
	}

	if err := file.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close temp wav file")
	}

	return os.ReadFile(file.Name())
}
