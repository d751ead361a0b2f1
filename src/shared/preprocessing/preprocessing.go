package preprocessing

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/dsp"
)

// Settings are the processing parameters the model was trained with.
// FrameLength and HopSize are in seconds.
type Settings struct {
	PreemphasisCoeff float64
	FrameLength      float64
	HopSize          float64
}

func DefaultSettings() Settings {
	return Settings{
		PreemphasisCoeff: 0,
		FrameLength:      0.0512,
		HopSize:          0.0256,
	}
}

func (s Settings) STFTConfig(sampleRate int) (dsp.STFTConfig, error) {
	frameLength := int(math.Round(s.FrameLength * float64(sampleRate)))
	hopSize := int(math.Round(s.HopSize * float64(sampleRate)))
	if frameLength <= 0 || hopSize <= 0 {
		return dsp.STFTConfig{}, errors.Wrapf(dsp.ErrBadParameter,
			"settings %+v give frame %d / hop %d at %d Hz", s, frameLength, hopSize, sampleRate)
	}

	return dsp.STFTConfig{
		FrameLength: frameLength,
		HopSize:     hopSize,
		Window:      dsp.SqrtHann(frameLength),
	}, nil
}

// FrequencyBins is F, the model's frequency dimension, for these settings.
func (s Settings) FrequencyBins(sampleRate int) (int, error) {
	cfg, err := s.STFTConfig(sampleRate)
	if err != nil {
		return 0, err
	}
	return cfg.FrameLength/2 + 1, nil
}

func NormalizeWaveform(samples []float64) []float64 {
	return dsp.PeakNormalize(samples)
}

// PreprocessWaveform returns the (frequency, time) spectrogram of the
// pre-emphasized signal along with that signal.
func PreprocessWaveform(samples []float64, sampleRate int, settings Settings) (dsp.Spectrogram, []float64, error) {
	cfg, err := settings.STFTConfig(sampleRate)
	if err != nil {
		return nil, nil, err
	}

	emphasized := dsp.Preemphasis(samples, settings.PreemphasisCoeff)
	spec, err := dsp.STFT(emphasized, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to compute STFT")
	}

	return spec, emphasized, nil
}

// UndoPreprocessing inverts a (frequency, time) spectrogram back to
// outputLength samples.
func UndoPreprocessing(spec dsp.Spectrogram, outputLength int, sampleRate int, preemphasisCoeff float64, settings Settings) ([]float64, error) {
	cfg, err := settings.STFTConfig(sampleRate)
	if err != nil {
		return nil, err
	}

	emphasized, err := dsp.ISTFT(spec, cfg, outputLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to invert STFT")
	}

	return dsp.Deemphasis(emphasized, preemphasisCoeff), nil
}
