package features

import (
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/dsp"
)

// Tensor2 is indexed (time-frame, feature-bin).
type Tensor2 [][]float64

// Tensor3 is indexed (signal, time-frame, feature-bin).
type Tensor3 [][][]float64

type MixtureSource interface {
	Next() (Mixture, error)
}

// FeatureIterator yields the features of each source alongside the features
// of their mixture.
type FeatureIterator interface {
	Next() (Tensor3, Tensor2, error)
}

type transform func(signal []float64) ([][]float64, error)

// samples truncates toward zero, so 65.5 samples become a 65 sample frame.
func samples(seconds float64, fs float64) int {
	return int(seconds * fs)
}

// featurize transforms the mixture and every source, optionally appending
// first and second time differences.
func featurize(mixture Mixture, fn transform, useDiffs bool) (Tensor3, Tensor2, error) {
	signals := append([][]float64{mixture.Mixed}, mixture.Sources...)

	all := make(Tensor3, len(signals))
	for i, signal := range signals {
		feat, err := fn(signal)
		if err != nil {
			return nil, nil, err
		}

		if useDiffs {
			if len(feat) < 3 {
				return nil, nil, errors.Wrapf(dsp.ErrShapeMismatch, "time differences need 3 frames, signal %d has %d", i, len(feat))
			}
			feat = dsp.WithDeltas(feat)
		}

		if i > 0 && len(feat) != len(all[0]) {
			return nil, nil, errors.Wrapf(dsp.ErrShapeMismatch, "signal %d has %d frames, mixture has %d", i, len(feat), len(all[0]))
		}

		all[i] = feat
	}

	return all[1:], Tensor2(all[0]), nil
}

type LMFOptions struct {
	Fs       float64
	STFTLen  float64
	STFTStep float64
	NFFT     int
	NFilters int
	UseDiffs bool
}

func DefaultLMFOptions() LMFOptions {
	return LMFOptions{
		Fs:       1.0,
		STFTLen:  1024,
		STFTStep: 512,
		NFFT:     512,
		NFilters: 40,
		UseDiffs: true,
	}
}

func (o LMFOptions) fbankConfig() dsp.FBankConfig {
	return dsp.FBankConfig{
		SampleRate: o.Fs,
		WinLen:     o.STFTLen,
		WinStep:    o.STFTStep,
		NFilt:      o.NFilters,
		NFFT:       o.NFFT,
		PreEmph:    0.97,
	}
}

// LMFIterator turns mixtures into log mel filterbank features.
type LMFIterator struct {
	wavs    MixtureSource
	options LMFOptions
}

func NewLMFIterator(wavs MixtureSource, options LMFOptions) *LMFIterator {
	return &LMFIterator{
		wavs:    wavs,
		options: options,
	}
}

func (l *LMFIterator) Next() (Tensor3, Tensor2, error) {
	mixture, err := l.wavs.Next()
	if err != nil {
		return nil, nil, err
	}

	cfg := l.options.fbankConfig()
	return featurize(mixture, func(signal []float64) ([][]float64, error) {
		return dsp.LogFBank(signal, cfg)
	}, l.options.UseDiffs)
}

type STFTOptions struct {
	Fs float64
	// STFTLen and STFTStep are in seconds; STFTLen*Fs is truncated to whole samples.
	STFTLen  float64
	STFTStep float64
	UseDiffs bool
}

func DefaultSTFTOptions() STFTOptions {
	return STFTOptions{
		Fs:       1.0,
		STFTLen:  1024,
		STFTStep: 512,
		UseDiffs: false,
	}
}

// STFTIterator turns mixtures into magnitude spectra of Hann windowed frames.
type STFTIterator struct {
	wavs    MixtureSource
	options STFTOptions
}

func NewSTFTIterator(wavs MixtureSource, options STFTOptions) *STFTIterator {
	return &STFTIterator{
		wavs:    wavs,
		options: options,
	}
}

func (s *STFTIterator) Next() (Tensor3, Tensor2, error) {
	mixture, err := s.wavs.Next()
	if err != nil {
		return nil, nil, err
	}

	frameLen := samples(s.options.STFTLen, s.options.Fs)
	hop := samples(s.options.STFTStep, s.options.Fs)

	return featurize(mixture, func(signal []float64) ([][]float64, error) {
		return dsp.MagnitudeFrames(signal, frameLen, hop)
	}, s.options.UseDiffs)
}
