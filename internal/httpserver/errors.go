package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/logging"
)

// HTTPErrorHandler is the single place status codes are decided. Handlers
// and services only ever raise apperr errors; anything else is a 500 with
// a generic body so internals never leak to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if ae := apperr.From(err); ae != nil {
		_ = c.JSON(ae.StatusCode, echo.Map{
			"message":    ae.Message,
			"statusCode": ae.StatusCode,
		})
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{
			"message":    fmt.Sprint(he.Message),
			"statusCode": he.Code,
		})
		return
	}

	logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"message":    "internal server error",
		"statusCode": http.StatusInternalServerError,
	})
}
