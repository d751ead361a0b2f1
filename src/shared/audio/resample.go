package audio

import (
	"math"

	"github.com/cockroachdb/errors"
	resampling "github.com/tphakala/go-audio-resampling"
	"github.com/veedubyou/separation-be/src/shared/dsp"
)

// Resample converts w to sampleRate. The output length is always
// round(len * sampleRate / w.SampleRate).
func Resample(w Waveform, sampleRate int) (Waveform, error) {
	if sampleRate <= 0 || w.SampleRate <= 0 {
		return Waveform{}, errors.Newf("invalid sample rates %d -> %d", w.SampleRate, sampleRate)
	}

	if w.SampleRate == sampleRate || len(w.Samples) == 0 {
		return Waveform{
			Samples:    w.Samples,
			SampleRate: sampleRate,
		}, nil
	}

	resampler, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(sampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return Waveform{}, errors.Wrap(err, "failed to create resampler")
	}

	output, err := resampler.Process(w.Samples)
	if err != nil {
		return Waveform{}, errors.Wrap(err, "failed to resample")
	}

	expected := int(math.Round(float64(len(w.Samples)) * float64(sampleRate) / float64(w.SampleRate)))

	return Waveform{
		Samples:    dsp.FitLength(output, expected),
		SampleRate: sampleRate,
	}, nil
}
