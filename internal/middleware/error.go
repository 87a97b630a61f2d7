package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/apperr"
)

// NewErrorHandler builds the global Echo error handler. apperr.Error values
// render with their carried status; echo.HTTPError passes through; anything
// else becomes a 500. In production the 500 body is generic, in development
// it includes the underlying error text.
func NewErrorHandler(env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := echo.Map{"error": "Internal server error"}

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Status
			body = echo.Map{"error": ae.Message}
			if ae.Details != "" && env != "production" {
				body["details"] = ae.Details
			}
		case errors.As(err, &he):
			status = he.Code
			body = echo.Map{"error": he.Message}
		default:
			log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			if env != "production" {
				body["details"] = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		if err := c.JSON(status, body); err != nil {
			log.Printf("error handler: write response: %v", err)
		}
	}
}
