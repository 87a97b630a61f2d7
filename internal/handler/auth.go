// Package handler contains the Echo HTTP handlers. Each handler struct
// bundles its dependencies and is constructed once in cmd/server.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/config"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// dbTimeout bounds every handler-initiated database call.
const dbTimeout = 5 * time.Second

// UserStore is the persistence surface the auth handlers use;
// *repository.UserRepo implements it.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthHandler bundles dependencies for auth and MFA endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Auth  *auth.Service
}

func NewAuthHandler(cfg config.Config, u UserStore, a *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Auth: a}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type mfaCodeReq struct {
	Token string `json:"token"`
}

type authResp struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         model.User `json:"user"`
}

// Register creates a user and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, hash)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	pair, err := h.Auth.Issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u,
	})
}

// Login verifies credentials and returns a fresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	pair, err := h.Auth.Issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u,
	})
}

// Refresh trades a valid refresh token for a new pair. The refresh token
// must carry the user's current version; a version bumped by logout or
// revoke-all rejects every outstanding refresh token at once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.VerifyRefresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if err == auth.ErrTokenExpired {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token expired"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid token"})
	}

	pair, err := h.Auth.Issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u,
	})
}

// Logout bumps the user's token version, invalidating every outstanding
// access and refresh token across devices.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	h.Auth.RevokeAll(ctx, userID)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Revoke blacklists only the presented access token. Other sessions keep
// working; this token is rejected until it would have expired anyway.
func (h *AuthHandler) Revoke(c echo.Context) error {
	userID := c.Get("user_id").(string)
	token := c.Get("token").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	h.Auth.BlacklistToken(ctx, token, userID)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MFASetup generates a staged TOTP secret and returns it with the otpauth
// provisioning URI for QR display.
func (h *AuthHandler) MFASetup(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	setup, err := h.Auth.SetupMFA(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mfa setup failed"})
	}
	return c.JSON(http.StatusOK, setup)
}

// MFAEnable binds the staged secret after the user proves possession with a
// valid code.
func (h *AuthHandler) MFAEnable(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req mfaCodeReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.EnableMFA(ctx, userID, req.Token); err != nil {
		switch err {
		case auth.ErrMFAInvalid:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid MFA token"})
		case auth.ErrMFASetupExpired, auth.ErrMFANotConfigured:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "MFA setup expired, start again"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mfa enable failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"enabled": true})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	u := c.Get("user").(model.User)
	return c.JSON(http.StatusOK, u)
}
