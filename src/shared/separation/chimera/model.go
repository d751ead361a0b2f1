package chimera

import (
	"context"

	"github.com/cockroachdb/errors"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var (
	ErrInvalidCheckpoint = errors.New("invalid chimera checkpoint")
	ErrModelUnavailable  = errors.New("chimera model runtime unavailable")
	ErrBadInference      = errors.New("chimera inference has unexpected shape")
)

// Config holds the hyperparameters the network was built with. F is the
// frequency dimension of the spectrograms it consumes.
type Config struct {
	LayerSize     int     `json:"layer_size"`
	EmbeddingSize int     `json:"embedding_size"`
	Alpha         float64 `json:"alpha"`
	Nonlinearity  string  `json:"nonlinearity"`
	F             int     `json:"F"`
	Device        string  `json:"device,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		LayerSize:     500,
		EmbeddingSize: 10,
		Alpha:         0.1,
		Nonlinearity:  "tanh",
		Device:        "/cpu:0",
	}
}

// Inference is what the network emits for one (time, frequency) magnitude
// spectrogram: a deep clustering embedding per bin and a soft mask per source.
type Inference struct {
	Embeddings [][][]float64 `json:"embeddings"` // [T][F][K]
	Masks      [][][]float64 `json:"masks"`      // [T][F][S]
}

//counterfeiter:generate . Model
type Model interface {
	Infer(ctx context.Context, magnitudes [][]float64) (Inference, error)
}

func (i Inference) numSources() int {
	if len(i.Masks) == 0 || len(i.Masks[0]) == 0 {
		return 0
	}
	return len(i.Masks[0][0])
}

func (i Inference) validateMasks(frames int, bins int) error {
	if len(i.Masks) != frames {
		return errors.Wrapf(ErrBadInference, "masks cover %d frames, spectrogram has %d", len(i.Masks), frames)
	}

	sources := i.numSources()
	if sources == 0 {
		return errors.Wrap(ErrBadInference, "masks have no sources")
	}

	for t, row := range i.Masks {
		if len(row) != bins {
			return errors.Wrapf(ErrBadInference, "mask frame %d has %d bins, expected %d", t, len(row), bins)
		}
		for f, bin := range row {
			if len(bin) != sources {
				return errors.Wrapf(ErrBadInference, "mask (%d, %d) has %d sources, expected %d", t, f, len(bin), sources)
			}
		}
	}

	return nil
}

func (i Inference) validateEmbeddings(frames int, bins int) error {
	if len(i.Embeddings) != frames {
		return errors.Wrapf(ErrBadInference, "embeddings cover %d frames, spectrogram has %d", len(i.Embeddings), frames)
	}

	for t, row := range i.Embeddings {
		if len(row) != bins {
			return errors.Wrapf(ErrBadInference, "embedding frame %d has %d bins, expected %d", t, len(row), bins)
		}
	}

	return nil
}
