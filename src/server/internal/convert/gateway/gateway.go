package convertgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/separation-be/src/server/internal/convert/usecase"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/separation-be/src/server/internal/lib/request"
)

const wavMIMEType = "audio/wav"

type Gateway struct {
	usecase convertusecase.Usecase
}

func NewGateway(usecase convertusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) Convert(c echo.Context) error {
	ctx := request.Context(c)

	upload, apiErr := request.UploadedFile(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	url, apiErr := g.usecase.Convert(ctx, upload.Filename, upload.Data)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to convert file")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.String(http.StatusOK, url)
}

func (g Gateway) GetConverted(c echo.Context, filename string) error {
	ctx := request.Context(c)

	contents, apiErr := g.usecase.GetConverted(ctx, filename)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.Blob(http.StatusOK, wavMIMEType, contents)
}
