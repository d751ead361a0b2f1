package chimera

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/dsp"
)

var ErrUnknownMethod = errors.New("unknown separation method")

type Method string

const (
	MethodMask    Method = "mask"
	MethodCluster Method = "cluster"
)

func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case "", MethodMask:
		return MethodMask, nil
	case MethodCluster:
		return MethodCluster, nil
	default:
		return "", errors.Wrapf(ErrUnknownMethod, "%q", name)
	}
}

// Sources holds per-source complex estimates indexed [source][time][frequency].
type Sources [][][]complex128

func (s Sources) Len() int {
	return len(s)
}

// Spectrogram returns source i transposed back to [frequency][time].
func (s Sources) Spectrogram(i int) (dsp.Spectrogram, error) {
	if i < 0 || i >= len(s) {
		return nil, errors.Wrapf(dsp.ErrShapeMismatch, "source %d requested, %d available", i, len(s))
	}

	frames := s[i]
	if len(frames) == 0 {
		return dsp.Spectrogram{}, nil
	}

	spec := dsp.NewSpectrogram(len(frames[0]), len(frames))
	for t, row := range frames {
		if len(row) != spec.Bins() {
			return nil, errors.Wrapf(dsp.ErrShapeMismatch, "frame %d has %d bins, expected %d", t, len(row), spec.Bins())
		}
		for f, v := range row {
			spec[f][t] = v
		}
	}

	return spec, nil
}

func Separate(ctx context.Context, method Method, spec dsp.Spectrogram, model Model, numSources int) (Sources, error) {
	switch method {
	case MethodMask:
		return Mask(ctx, spec, model)
	case MethodCluster:
		return ClusterSeparate(ctx, spec, model, numSources)
	default:
		return nil, errors.Wrapf(ErrUnknownMethod, "%q", method)
	}
}

// Mask applies each of the model's mask-inference outputs to the mixture.
func Mask(ctx context.Context, spec dsp.Spectrogram, model Model) (Sources, error) {
	inference, err := infer(ctx, spec, model)
	if err != nil {
		return nil, err
	}

	if err := inference.validateMasks(spec.Frames(), spec.Bins()); err != nil {
		return nil, err
	}

	numSources := inference.numSources()
	sources := newSources(numSources, spec.Frames(), spec.Bins())
	for t, row := range inference.Masks {
		for f, weights := range row {
			mixture := spec[f][t]
			for s, w := range weights {
				sources[s][t][f] = mixture * complex(w, 0)
			}
		}
	}

	return sources, nil
}

// ClusterSeparate groups the deep clustering embeddings of every
// time-frequency bin into numSources clusters and uses each cluster as a
// binary mask over the mixture.
func ClusterSeparate(ctx context.Context, spec dsp.Spectrogram, model Model, numSources int) (Sources, error) {
	if numSources < 1 {
		return nil, errors.Wrapf(dsp.ErrBadParameter, "cannot cluster into %d sources", numSources)
	}

	inference, err := infer(ctx, spec, model)
	if err != nil {
		return nil, err
	}

	frames, bins := spec.Frames(), spec.Bins()
	if len(inference.Embeddings) == 0 {
		return nil, errors.Wrap(ErrBadInference, "model returned no embeddings")
	}
	if err := inference.validateEmbeddings(frames, bins); err != nil {
		return nil, err
	}

	points := make([][]float64, 0, frames*bins)
	for _, row := range inference.Embeddings {
		points = append(points, row...)
	}

	labels, err := KMeans(points, numSources, defaultKMeansIterations)
	if err != nil {
		return nil, err
	}

	sources := newSources(numSources, frames, bins)
	for i, label := range labels {
		t, f := i/bins, i%bins
		sources[label][t][f] = spec[f][t]
	}

	return sources, nil
}

func infer(ctx context.Context, spec dsp.Spectrogram, model Model) (Inference, error) {
	if spec.Bins() == 0 || spec.Frames() == 0 {
		return Inference{}, errors.Wrap(dsp.ErrShapeMismatch, "empty spectrogram")
	}

	inference, err := model.Infer(ctx, spec.Magnitude())
	if err != nil {
		return Inference{}, errors.Wrap(err, "chimera inference failed")
	}

	return inference, nil
}

func newSources(numSources int, frames int, bins int) Sources {
	sources := make(Sources, numSources)
	for s := range sources {
		sources[s] = make([][]complex128, frames)
		for t := range sources[s] {
			sources[s][t] = make([]complex128, bins)
		}
	}
	return sources
}
