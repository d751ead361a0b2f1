package chimera

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

const (
	ManifestFileName  = "model.json"
	defaultNumSources = 2
	defaultTimeout    = 60 * time.Second
)

// Manifest describes a checkpoint directory: which network it holds, where
// the runtime serving it listens and the hyperparameters it was trained with.
type Manifest struct {
	Name        string `json:"name"`
	ServingURL  string `json:"serving_url"`
	NumSources  int    `json:"num_sources"`
	ModelParams Config `json:"model_params"`
}

type Option func(*RemoteModel)

func WithServiceURL(url string) Option {
	return func(r *RemoteModel) {
		if url != "" {
			r.serviceURL = strings.TrimSuffix(url, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(r *RemoteModel) {
		r.client = client
	}
}

func ReadManifest(checkpointDir string) (Manifest, error) {
	path := filepath.Join(checkpointDir, ManifestFileName)
	contents, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.Mark(errors.Wrapf(err, "failed to read %s", path), ErrInvalidCheckpoint)
	}

	manifest := Manifest{}
	if err := json.Unmarshal(contents, &manifest); err != nil {
		return Manifest{}, errors.Mark(errors.Wrapf(err, "failed to parse %s", path), ErrInvalidCheckpoint)
	}

	return manifest, nil
}

// Load reads the checkpoint manifest in checkpointDir, checks that it is a
// Chimera network built with config, and returns a client for its runtime.
func Load(checkpointDir string, config Config, opts ...Option) (*RemoteModel, error) {
	manifest, err := ReadManifest(checkpointDir)
	if err != nil {
		return nil, err
	}

	if err := manifest.compatibleWith(config); err != nil {
		return nil, errors.Wrapf(err, "checkpoint %s", checkpointDir)
	}

	numSources := manifest.NumSources
	if numSources == 0 {
		numSources = defaultNumSources
	}

	model := &RemoteModel{
		serviceURL: strings.TrimSuffix(manifest.ServingURL, "/"),
		client:     &http.Client{Timeout: defaultTimeout},
		config:     config,
		numSources: numSources,
	}

	for _, opt := range opts {
		opt(model)
	}

	if model.serviceURL == "" {
		return nil, errors.Wrap(ErrInvalidCheckpoint, "no serving url in manifest or options")
	}

	log.WithFields(log.Fields{
		"checkpoint":  checkpointDir,
		"service_url": model.serviceURL,
		"num_sources": numSources,
		"F":           config.F,
		"device":      config.Device,
	}).Info("Loaded chimera model")

	return model, nil
}

func (m Manifest) compatibleWith(config Config) error {
	if !strings.EqualFold(m.Name, "chimera") {
		return errors.Wrapf(ErrInvalidCheckpoint, "expected a chimera checkpoint, found %q", m.Name)
	}

	params := m.ModelParams
	mismatch := func(name string, want any, got any) error {
		return errors.Wrapf(ErrInvalidCheckpoint, "%s is %v in the checkpoint but %v was requested", name, got, want)
	}

	switch {
	case params.LayerSize != 0 && params.LayerSize != config.LayerSize:
		return mismatch("layer_size", config.LayerSize, params.LayerSize)
	case params.EmbeddingSize != 0 && params.EmbeddingSize != config.EmbeddingSize:
		return mismatch("embedding_size", config.EmbeddingSize, params.EmbeddingSize)
	case params.Alpha != 0 && params.Alpha != config.Alpha:
		return mismatch("alpha", config.Alpha, params.Alpha)
	case params.Nonlinearity != "" && normalizeNonlinearity(params.Nonlinearity) != normalizeNonlinearity(config.Nonlinearity):
		return mismatch("nonlinearity", config.Nonlinearity, params.Nonlinearity)
	case params.F != 0 && params.F != config.F:
		return mismatch("F", config.F, params.F)
	}

	return nil
}

// checkpoints written from python record "tf.tanh"
func normalizeNonlinearity(name string) string {
	return strings.TrimPrefix(strings.ToLower(name), "tf.")
}
