package request

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
)

func Context(c echo.Context) context.Context {
	switch env.Get() {
	case env.Production, env.Test:
		return c.Request().Context()

	case env.Development:
		// no request deadline while debugging
		return context.Background()

	default:
		panic("Unrecognized environment")
	}
}
