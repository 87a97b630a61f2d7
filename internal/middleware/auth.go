// Package middleware contains reusable HTTP middleware: bearer-token
// authentication, MFA enforcement and the global error handler.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/auth"
)

// Authenticate returns an Echo middleware that validates a Bearer access
// token and injects the authenticated user into the request context.
// Handlers behind it can read `c.Get("user")` (model.User),
// `c.Get("user_id")` (string) and `c.Get("token")` (the raw JWT, used by
// the revoke endpoint).
func Authenticate(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			user, err := svc.VerifyAccess(c.Request().Context(), raw)
			if err != nil {
				status, msg := verifyError(err)
				return c.JSON(status, echo.Map{"error": msg})
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("token", raw)
			return next(c)
		}
	}
}

// verifyError maps token verification failures to HTTP responses. Expiry,
// revocation and version mismatch are 401 so clients know to refresh or
// re-authenticate; a malformed or forged token is 403.
func verifyError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, "Token has been revoked"
	case errors.Is(err, auth.ErrVersionMismatch):
		return http.StatusUnauthorized, "Token version mismatch"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	default:
		return http.StatusForbidden, "Invalid token"
	}
}
