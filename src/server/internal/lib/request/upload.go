package request

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/separation-be/src/server/internal/convert/errors"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/shared/audio"
)

const UploadField = "file"

type Upload struct {
	Filename string
	Data     []byte
}

// UploadedFile reads the multipart "file" part, rejecting requests without
// one and files whose extension is not an accepted audio format.
func UploadedFile(c echo.Context) (Upload, *api.Error) {
	fileHeader, err := c.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return Upload{}, api.CommitError(errors.Wrap(err, "No file part in request"),
				converterrors.MissingFileCode,
				"No file was uploaded")
		}

		return Upload{}, api.CommitError(errors.Wrap(err, "Failed to parse multipart form"),
			converterrors.MissingFileCode,
			"The upload could not be read. Please try again")
	}

	if fileHeader.Filename == "" {
		return Upload{}, api.CommitError(errors.New("Uploaded file has no name"),
			converterrors.MissingFileCode,
			"No file was selected")
	}

	if _, ok := audio.FormatOf(fileHeader.Filename); !ok {
		return Upload{}, api.CommitError(errors.Newf("Extension of %q is not allowed", fileHeader.Filename),
			converterrors.InvalidFileTypeCode,
			"Only wav and mp3 files can be converted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Upload{}, api.CommitError(errors.Wrap(err, "Failed to open uploaded file"),
			api.DefaultErrorCode,
			"Unknown Error: failed to read the upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, api.CommitError(errors.Wrap(err, "Failed to read uploaded file"),
			api.DefaultErrorCode,
			"Unknown Error: failed to read the upload")
	}

	return Upload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}
