package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/config"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/repository"
)

type stubUsers struct {
	users map[string]model.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) EnableMFA(_ context.Context, id, secret string) error {
	u := s.users[id]
	u.MFAEnabled = true
	u.MFASecret = secret
	s.users[id] = u
	return nil
}

func newAuthService() (*auth.Service, *stubUsers) {
	users := &stubUsers{users: map[string]model.User{
		"u1": {ID: "u1", Username: "alice"},
	}}
	cfg := config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		BlacklistTTL:     24 * time.Hour,
		MFAIssuer:        "FinanceFlow",
		MFASetupTTL:      10 * time.Minute,
	}
	return auth.NewService(cache.NewMemory(), users, cfg), users
}

func doRequest(svc *auth.Service, authorization string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"userId": c.Get("user_id")})
	}, Authenticate(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateMissingHeader(t *testing.T) {
	svc, _ := newAuthService()

	rec := doRequest(svc, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Access token required"}`, rec.Body.String())
}

func TestAuthenticateValidToken(t *testing.T) {
	svc, _ := newAuthService()
	pair, err := svc.Issue(context.Background(), "u1")
	require.NoError(t, err)

	rec := doRequest(svc, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u1"}`, rec.Body.String())
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _ := newAuthService()

	rec := doRequest(svc, "Bearer not.a.token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
}

func TestAuthenticateAfterRevokeAll(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "u1")
	require.NoError(t, err)

	// Logging out bumps the version; every token issued before is rejected.
	svc.RevokeAll(ctx, "u1")

	rec := doRequest(svc, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token version mismatch"}`, rec.Body.String())
}

func TestAuthenticateBlacklistedToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "u1")
	require.NoError(t, err)
	svc.BlacklistToken(ctx, pair.AccessToken, "u1")

	rec := doRequest(svc, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token has been revoked"}`, rec.Body.String())
}

func TestAuthenticateDeletedUser(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	pair, err := svc.Issue(ctx, "u1")
	require.NoError(t, err)
	delete(users.users, "u1")

	rec := doRequest(svc, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}
