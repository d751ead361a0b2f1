package features

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNotEnoughCandidates = errors.New("not enough source files to mix")
	ErrSignalTooShort      = errors.New("source file is shorter than the requested signal length")
	ErrSampleRateMismatch  = errors.New("source files have different sample rates")
)

type MixerOptions struct {
	MixRandom bool
	NumToMix  int
	SigLength int
	Mask      string
}

func DefaultMixerOptions() MixerOptions {
	return MixerOptions{
		MixRandom: false,
		NumToMix:  2,
		SigLength: 100*512 + 1,
		Mask:      "_src.wav",
	}
}

// Mixture is one training example: the sources, their weights and the
// weighted sum of them.
type Mixture struct {
	Sources    [][]float64
	Mixed      []float64
	Weights    []float64
	SampleRate int
}

type WavMixer struct {
	dir        string
	options    MixerOptions
	rng        *rand.Rand
	candidates []string
}

// NewWavMixer lists the files in dir whose name contains options.Mask.
func NewWavMixer(dir string, options MixerOptions, rng *rand.Rand) (*WavMixer, error) {
	if options.NumToMix <= 0 || options.SigLength <= 0 {
		return nil, errors.Newf("num to mix %d and signal length %d must be positive", options.NumToMix, options.SigLength)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	candidates := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), options.Mask) {
			continue
		}
		candidates = append(candidates, entry.Name())
	}
	sort.Strings(candidates)

	if len(candidates) < options.NumToMix {
		return nil, errors.Wrapf(ErrNotEnoughCandidates, "%d files in %s match %q, need %d",
			len(candidates), dir, options.Mask, options.NumToMix)
	}

	return &WavMixer{
		dir:        dir,
		options:    options,
		rng:        rng,
		candidates: candidates,
	}, nil
}

func (w *WavMixer) Candidates() []string {
	return append([]string(nil), w.candidates...)
}

// Mix picks NumToMix distinct files, cuts a random SigLength slice out of
// each and sums them.
func (w *WavMixer) Mix() (Mixture, error) {
	picks := w.rng.Perm(len(w.candidates))[:w.options.NumToMix]

	mixture := Mixture{
		Sources: make([][]float64, 0, len(picks)),
		Weights: make([]float64, len(picks)),
		Mixed:   make([]float64, w.options.SigLength),
	}

	for _, pick := range picks {
		name := w.candidates[pick]

		pcm, err := audio.ReadPCMFile(filepath.Join(w.dir, name))
		if err != nil {
			return Mixture{}, err
		}

		if mixture.SampleRate == 0 {
			mixture.SampleRate = pcm.SampleRate
		} else if pcm.SampleRate != mixture.SampleRate {
			return Mixture{}, errors.Wrapf(ErrSampleRateMismatch, "%s is %dHz, expected %dHz",
				name, pcm.SampleRate, mixture.SampleRate)
		}

		samples := pcm.MonoValues()
		if len(samples) < w.options.SigLength {
			return Mixture{}, errors.Wrapf(ErrSignalTooShort, "%s has %d samples, need %d",
				name, len(samples), w.options.SigLength)
		}

		start := w.rng.Intn(len(samples) - w.options.SigLength + 1)
		source := append([]float64(nil), samples[start:start+w.options.SigLength]...)
		mixture.Sources = append(mixture.Sources, source)
	}

	for i := range mixture.Weights {
		mixture.Weights[i] = 1
		if w.options.MixRandom {
			mixture.Weights[i] = w.rng.Float64()
		}
	}

	for i, source := range mixture.Sources {
		floats.AddScaled(mixture.Mixed, mixture.Weights[i], source)
	}

	return mixture, nil
}

// WavIterator yields mixtures forever.
type WavIterator struct {
	mixer *WavMixer
}

func NewWavIterator(mixer *WavMixer) *WavIterator {
	return &WavIterator{mixer: mixer}
}

func (w *WavIterator) Next() (Mixture, error) {
	return w.mixer.Mix()
}
