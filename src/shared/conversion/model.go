package conversion

import (
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"github.com/veedubyou/separation-be/src/shared/separation/chimera"
)

// LoadModel loads the checkpoint in modelDir once, sized for spectrograms
// produced with config's settings at SampleRate.
func LoadModel(modelDir string, serviceURL string, config Config) (*chimera.RemoteModel, error) {
	bins, err := config.Settings.FrequencyBins(SampleRate)
	if err != nil {
		return nil, cerr.Wrap(err).Error("Invalid preprocessing settings")
	}

	modelConfig := chimera.DefaultConfig()
	modelConfig.F = bins

	model, err := chimera.Load(modelDir, modelConfig, chimera.WithServiceURL(serviceURL))
	if err != nil {
		return nil, cerr.Field("model_dir", modelDir).Wrap(err).Error("Failed to load separation model")
	}

	return model, nil
}
