package chimera

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

const inferPath = "/v1/chimera:infer"

var _ Model = &RemoteModel{}

// RemoteModel talks to the model runtime holding the Chimera weights. It
// holds no mutable state after Load and is safe to share between requests.
type RemoteModel struct {
	serviceURL string
	client     *http.Client
	config     Config
	numSources int
}

type inferRequest struct {
	ModelParams Config      `json:"model_params"`
	Spectrogram [][]float64 `json:"spectrogram"`
}

func (r *RemoteModel) Config() Config {
	return r.config
}

func (r *RemoteModel) NumSources() int {
	return r.numSources
}

func (r *RemoteModel) ServiceURL() string {
	return r.serviceURL
}

func (r *RemoteModel) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.serviceURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "failed to create health request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "model runtime not reachable"), ErrModelUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrModelUnavailable, "model runtime unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

// Infer sends a (time, frequency) magnitude spectrogram to the runtime and
// returns the embeddings and masks it computed.
func (r *RemoteModel) Infer(ctx context.Context, magnitudes [][]float64) (Inference, error) {
	if len(magnitudes) == 0 {
		return Inference{}, errors.Wrap(ErrBadInference, "spectrogram has no frames")
	}

	bins := len(magnitudes[0])
	if r.config.F != 0 && bins != r.config.F {
		return Inference{}, errors.Wrapf(ErrBadInference, "spectrogram has %d bins, model expects %d", bins, r.config.F)
	}

	payload, err := json.Marshal(inferRequest{
		ModelParams: r.config,
		Spectrogram: magnitudes,
	})
	if err != nil {
		return Inference{}, errors.Wrap(err, "failed to encode inference request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.serviceURL+inferPath, bytes.NewReader(payload))
	if err != nil {
		return Inference{}, errors.Wrap(err, "failed to create inference request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Inference{}, errors.Mark(errors.Wrap(err, "inference request failed"), ErrModelUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Inference{}, errors.Wrapf(ErrModelUnavailable, "model runtime returned status %d: %s", resp.StatusCode, string(body))
	}

	inference := Inference{}
	if err := json.NewDecoder(resp.Body).Decode(&inference); err != nil {
		return Inference{}, errors.Mark(errors.Wrap(err, "failed to decode inference response"), ErrBadInference)
	}

	frames := len(magnitudes)
	if err := inference.validateMasks(frames, bins); err != nil {
		return Inference{}, err
	}
	if inference.numSources() != r.numSources {
		return Inference{}, errors.Wrapf(ErrBadInference, "runtime returned %d sources, checkpoint has %d", inference.numSources(), r.numSources)
	}
	if len(inference.Embeddings) > 0 {
		if err := inference.validateEmbeddings(frames, bins); err != nil {
			return Inference{}, err
		}
	}

	return inference, nil
}
