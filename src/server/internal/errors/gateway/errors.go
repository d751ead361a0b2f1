package gateway

import (
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/separation-be/src/server/api_error"
	"github.com/veedubyou/separation-be/src/server/internal/convert/errors"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/server/internal/job/errors"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                http.StatusInternalServerError,
	converterrors.MissingFileCode:       http.StatusBadRequest,
	converterrors.InvalidFileTypeCode:   http.StatusBadRequest,
	converterrors.UndecodableAudioCode:  http.StatusBadRequest,
	converterrors.BadFilenameCode:       http.StatusBadRequest,
	converterrors.ConvertedNotFoundCode: http.StatusNotFound,
	joberrors.JobNotFoundCode:           http.StatusNotFound,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err.InternalError)
	} else {
		log.WithField("code", err.ErrorCode).WithError(err.InternalError).Info("Rejected request")
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
