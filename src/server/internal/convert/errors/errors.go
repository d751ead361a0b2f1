package converterrors

import (
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
)

const (
	MissingFileCode       = api.ErrorCode("missing_file")
	InvalidFileTypeCode   = api.ErrorCode("invalid_file_type")
	UndecodableAudioCode  = api.ErrorCode("undecodable_audio")
	BadFilenameCode       = api.ErrorCode("bad_filename")
	ConvertedNotFoundCode = api.ErrorCode("converted_not_found")
)
