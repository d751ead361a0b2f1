package convertusecase

import (
	"context"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/separation-be/src/server/internal/convert/errors"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/shared/audio"
	"github.com/veedubyou/separation-be/src/shared/conversion"
	"github.com/veedubyou/separation-be/src/shared/filestore"
)

type Usecase struct {
	converter conversion.Converter
	uploads   filestore.FileStore
	converted filestore.FileStore
}

func NewUsecase(converter conversion.Converter, uploads filestore.FileStore, converted filestore.FileStore) Usecase {
	return Usecase{
		converter: converter,
		uploads:   uploads,
		converted: converted,
	}
}

// Convert persists the upload, separates it and returns the URL of the
// result. The upload is removed once it has been processed.
func (u Usecase) Convert(ctx context.Context, filename string, data []byte) (string, *api.Error) {
	uploadKey, err := conversion.SaveUpload(ctx, u.uploads, filename, data)
	if err != nil {
		return "", classifyConversionError(errors.Wrap(err, "Failed to save upload"))
	}

	defer func() {
		if err := u.uploads.DeleteFile(context.Background(), uploadKey); err != nil {
			log.WithField("key", uploadKey).WithError(err).Warn("Failed to remove processed upload")
		}
	}()

	url, err := u.converter.Convert(ctx, uploadKey, data)
	if err != nil {
		return "", classifyConversionError(errors.Wrap(err, "Failed to convert upload"))
	}

	return url, nil
}

func classifyConversionError(err error) *api.Error {
	switch {
	case markers.Is(err, audio.ErrUnsupportedFormat):
		return api.CommitError(err,
			converterrors.InvalidFileTypeCode,
			"Only wav and mp3 files can be converted")

	case markers.Is(err, audio.ErrUndecodable):
		return api.CommitError(err,
			converterrors.UndecodableAudioCode,
			"The uploaded file could not be decoded as audio")

	default:
		return api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown Error: the file could not be converted")
	}
}

func (u Usecase) GetConverted(ctx context.Context, filename string) ([]byte, *api.Error) {
	if err := filestore.ValidateKey(filename); err != nil {
		return nil, api.CommitError(err,
			converterrors.BadFilenameCode,
			"The requested file name is not valid")
	}

	contents, err := u.converted.GetFile(ctx, filename)
	if err != nil {
		err = errors.Wrap(err, "Failed to read converted file")
		switch {
		case markers.Is(err, filestore.FileNotFound):
			return nil, api.CommitError(err,
				converterrors.ConvertedNotFoundCode,
				"The converted file does not exist or has expired")
		default:
			return nil, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown Error: failed to fetch the converted file")
		}
	}

	return contents, nil
}
