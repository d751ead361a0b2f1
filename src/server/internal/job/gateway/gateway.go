package jobgateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/separation-be/src/server/internal/errors/api"
	"github.com/veedubyou/separation-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/separation-be/src/server/internal/job/usecase"
	"github.com/veedubyou/separation-be/src/server/internal/lib/request"
)

type Gateway struct {
	usecase jobusecase.Usecase
}

func NewGateway(usecase jobusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) CreateJob(c echo.Context) error {
	ctx := request.Context(c)

	upload, apiErr := request.UploadedFile(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	job, apiErr := g.usecase.CreateJob(ctx, upload.Filename, upload.Data)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to create job")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusAccepted, job)
}

func (g Gateway) GetJob(c echo.Context, jobID string) error {
	ctx := request.Context(c)

	job, apiErr := g.usecase.GetJob(ctx, jobID)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}
