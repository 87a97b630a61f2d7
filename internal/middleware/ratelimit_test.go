package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/finance-flow/internal/config"
)

func doLimited(mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, mw)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	rec := doLimited(RateLimit(cfg, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	cfg := config.LoadRateLimitConfig()
	rec := doLimited(RateLimit(cfg, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitFailsOpenOnRedisError(t *testing.T) {
	// Client pointing at a closed port: every script call errors and the
	// request must still reach the handler.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	defer func() { _ = rdb.Close() }()

	cfg := config.LoadRateLimitConfig()
	rec := doLimited(RateLimit(cfg, rdb))
	assert.Equal(t, http.StatusOK, rec.Code)
}
