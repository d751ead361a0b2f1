package filestore

import (
	"github.com/veedubyou/separation-be/src/shared/config"
	"google.golang.org/api/option"
)

// FromConfig opens the upload and converted stores described by cfg.
func FromConfig(cfg config.FileStorage) (uploads FileStore, converted FileStore, err error) {
	switch t := cfg.(type) {
	case config.LocalFileStorage:
		localUploads, err := NewLocalFileStore(t.UploadDir)
		if err != nil {
			return nil, nil, err
		}

		localConverted, err := NewLocalFileStore(t.ConvertedDir)
		if err != nil {
			return nil, nil, err
		}

		return localUploads, localConverted, nil

	case config.GoogleFileStorage:
		credentials := option.WithCredentialsJSON([]byte(t.SecretKey))

		googleUploads, err := NewGoogleFileStore(t.BucketName, t.UploadPrefix, credentials)
		if err != nil {
			return nil, nil, err
		}

		googleConverted, err := NewGoogleFileStore(t.BucketName, t.ConvertedPrefix, credentials)
		if err != nil {
			return nil, nil, err
		}

		return googleUploads, googleConverted, nil

	default:
		panic("Unrecognized file storage config")
	}
}
