package testing

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
)

// PrepareEchoContext wraps request in a context whose response can be
// inspected through the returned recorder.
func PrepareEchoContext(request *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	e := echo.New()
	return e.NewContext(request, recorder), recorder
}
