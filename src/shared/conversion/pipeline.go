package conversion

import (
	"context"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/config/envvar"
	"github.com/veedubyou/separation-be/src/shared/preprocessing"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
)

// SampleRate is the rate the model was trained at. Every upload is
// resampled to it and every result is written at it.
const SampleRate = 10000

var ErrSeparationFailed = errors.New("separation failed")

type Config struct {
	Settings    preprocessing.Settings
	Method      chimera.Method
	SourceIndex int
	NumSources  int
}

func DefaultConfig() Config {
	return Config{
		Settings:    preprocessing.DefaultSettings(),
		Method:      chimera.MethodMask,
		SourceIndex: 0,
		NumSources:  2,
	}
}

// Pipeline turns uploaded audio into one separated source.
type Pipeline struct {
	model  chimera.Model
	config Config
}

func NewPipeline(model chimera.Model, config Config) (Pipeline, error) {
	if config.SourceIndex < 0 {
		return Pipeline{}, errors.Newf("source index %d is negative", config.SourceIndex)
	}

	if config.Method == chimera.MethodCluster && config.SourceIndex >= config.NumSources {
		return Pipeline{}, errors.Newf("source index %d is out of range for %d sources", config.SourceIndex, config.NumSources)
	}

	return Pipeline{
		model:  model,
		config: config,
	}, nil
}

func (p Pipeline) Config() Config {
	return p.config
}

// Run decodes an uploaded file and returns the selected source as WAV bytes.
func (p Pipeline) Run(ctx context.Context, filename string, data []byte) ([]byte, error) {
	format, ok := audio.FormatOf(filename)
	if !ok {
		return nil, errors.Wrapf(audio.ErrUnsupportedFormat, "filename %q", filename)
	}

	waveform, err := audio.Load(format, data, SampleRate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load upload")
	}

	if len(waveform.Samples) == 0 {
		return nil, errors.Wrap(audio.ErrUndecodable, "upload has no samples")
	}

	separated, err := p.Separate(ctx, waveform)
	if err != nil {
		return nil, err
	}

	encoded, err := audio.EncodeWAV(separated)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode separated audio")
	}

	return encoded, nil
}

// Separate runs normalization, analysis, masking and resynthesis on a
// waveform already at SampleRate. The result has the input's length.
func (p Pipeline) Separate(ctx context.Context, waveform audio.Waveform) (audio.Waveform, error) {
	settings := p.config.Settings
	normalized := preprocessing.NormalizeWaveform(waveform.Samples)

	spec, _, err := preprocessing.PreprocessWaveform(normalized, waveform.SampleRate, settings)
	if err != nil {
		return audio.Waveform{}, errors.Wrap(err, "failed to preprocess waveform")
	}

	sources, err := chimera.Separate(ctx, p.config.Method, spec, p.model, p.config.NumSources)
	if err != nil {
		return audio.Waveform{}, errors.Mark(errors.Wrap(err, "model failed to separate sources"), ErrSeparationFailed)
	}

	source, err := sources.Spectrogram(p.config.SourceIndex)
	if err != nil {
		return audio.Waveform{}, errors.Mark(errors.Wrap(err, "selected source is unavailable"), ErrSeparationFailed)
	}

	samples, err := preprocessing.UndoPreprocessing(source, len(waveform.Samples), waveform.SampleRate, settings.PreemphasisCoeff, settings)
	if err != nil {
		return audio.Waveform{}, errors.Wrap(err, "failed to resynthesize source")
	}

	log.WithFields(log.Fields{
		"samples":     len(samples),
		"frames":      spec.Frames(),
		"num_sources": sources.Len(),
		"method":      p.config.Method,
	}).Debug("Separated waveform")

	return audio.Waveform{Samples: samples, SampleRate: waveform.SampleRate}, nil
}

// ConfigFromEnv reads SEPARATION_METHOD and SOURCE_INDEX over the defaults.
func ConfigFromEnv() (Config, error) {
	config := DefaultConfig()

	method, err := chimera.ParseMethod(envvar.Get(envvar.SEPARATION_METHOD, string(chimera.MethodMask)))
	if err != nil {
		return Config{}, err
	}

	config.Method = method
	config.SourceIndex = envvar.GetInt(envvar.SOURCE_INDEX, config.SourceIndex)
	return config, nil
}
