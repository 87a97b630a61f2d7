package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/model"
)

// RequireMFA returns a middleware enforcing a valid TOTP code on sensitive
// mutations. Users without MFA enabled pass through untouched; users with
// MFA enabled must send the current code in the X-MFA-Token header. Must be
// registered after Authenticate.
func RequireMFA(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(model.User)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
			}

			code := c.Request().Header.Get("X-MFA-Token")
			if err := svc.RequireMFA(c.Request().Context(), user.ID, code); err != nil {
				return MFAError(err)
			}
			return next(c)
		}
	}
}

// MFAError renders MFA verification failures. Shared with handlers that
// check MFA conditionally instead of via the middleware.
func MFAError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMFARequired):
		return echo.NewHTTPError(http.StatusUnauthorized, "MFA token required")
	case errors.Is(err, auth.ErrMFAInvalid):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid MFA token")
	default:
		return err
	}
}
