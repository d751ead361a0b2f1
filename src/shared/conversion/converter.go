package conversion

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

const ConvertedRoute = "/api/v1/converted/"

type URLBuilder struct {
	BaseURL string
}

func (u URLBuilder) ConvertedURL(key string) string {
	return strings.TrimSuffix(u.BaseURL, "/") + ConvertedRoute + key
}

// Converter runs the pipeline and publishes the result to the converted store.
type Converter struct {
	pipeline  Pipeline
	converted filestore.FileStore
	urls      URLBuilder
}

func NewConverter(pipeline Pipeline, converted filestore.FileStore, urls URLBuilder) Converter {
	return Converter{
		pipeline:  pipeline,
		converted: converted,
		urls:      urls,
	}
}

func (c Converter) Convert(ctx context.Context, filename string, data []byte) (string, error) {
	wav, err := c.pipeline.Run(ctx, filename, data)
	if err != nil {
		return "", cerr.Field("filename", filename).Wrap(err).Error("Failed to run conversion pipeline")
	}

	key := uuid.New().String() + "." + string(audio.WAV)
	if err := c.converted.WriteFile(ctx, key, wav); err != nil {
		return "", cerr.Field("key", key).Wrap(err).Error("Failed to store converted file")
	}

	return c.urls.ConvertedURL(key), nil
}

// UploadKey generates a unique store key that keeps the upload's
// (lowercased) extension.
func UploadKey(filename string) (string, error) {
	format, ok := audio.FormatOf(filename)
	if !ok {
		return "", cerr.Field("filename", filename).Wrap(audio.ErrUnsupportedFormat).Error("Upload has an unsupported extension")
	}

	return uuid.New().String() + "." + string(format), nil
}

// SaveUpload writes the upload under a generated key and returns the key
// that was written.
func SaveUpload(ctx context.Context, uploads filestore.FileStore, filename string, data []byte) (string, error) {
	key, err := UploadKey(filename)
	if err != nil {
		return "", err
	}

	if err := uploads.WriteFile(ctx, key, data); err != nil {
		return "", cerr.Field("key", key).Wrap(err).Error("Failed to save upload")
	}

	return key, nil
}
