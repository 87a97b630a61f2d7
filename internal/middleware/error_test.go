package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/finance-flow/internal/apperr"
)

func serveWith(env string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(env)
	e.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandlerAppError(t *testing.T) {
	rec := serveWith("production", func(echo.Context) error {
		return apperr.NotFound("budget not found")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"budget not found"}`, rec.Body.String())
}

func TestErrorHandlerEchoHTTPError(t *testing.T) {
	rec := serveWith("production", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "MFA token required")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"MFA token required"}`, rec.Body.String())
}

func TestErrorHandlerHidesInternalsInProduction(t *testing.T) {
	rec := serveWith("production", func(echo.Context) error {
		return errors.New("sql: connection refused")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestErrorHandlerShowsDetailsInDev(t *testing.T) {
	rec := serveWith("dev", func(echo.Context) error {
		return errors.New("sql: connection refused")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
