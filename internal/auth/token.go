package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/finance-flow/internal/model"
)

// Token kinds embedded in the "type" claim.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// TokenPair is the access/refresh pair handed to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Issue signs a fresh token pair for the user, stamping both tokens with
// the user's current version counter. Access tokens are short-lived and
// authorize API requests; refresh tokens are long-lived and only mint new
// pairs.
func (s *Service) Issue(ctx context.Context, userID string) (TokenPair, error) {
	version := s.TokenVersion(ctx, userID)

	access, err := s.sign(userID, kindAccess, version, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, kindRefresh, version, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(userID, kind string, version int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    kind,
		"version": version,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token end to end: signature, expiry,
// blacklist, user existence and version match. On success it returns the
// resolved user so the request context can carry it.
func (s *Service) VerifyAccess(ctx context.Context, token string) (model.User, error) {
	userID, version, err := s.parse(token, kindAccess, s.accessSecret)
	if err != nil {
		return model.User{}, err
	}
	if s.IsTokenBlacklisted(ctx, token) {
		return model.User{}, ErrTokenRevoked
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if version != s.TokenVersion(ctx, u.ID) {
		return model.User{}, ErrVersionMismatch
	}
	return u, nil
}

// VerifyRefresh validates a refresh token. The version check means a
// revoke-all also kills outstanding refresh tokens, so a revoked session
// cannot mint new access tokens.
func (s *Service) VerifyRefresh(ctx context.Context, token string) (model.User, error) {
	userID, version, err := s.parse(token, kindRefresh, s.refreshSecret)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if version != s.TokenVersion(ctx, u.ID) {
		return model.User{}, ErrVersionMismatch
	}
	return u, nil
}

// parse checks the signature and expiry and extracts the subject and
// version claims. The signing method is asserted to be HMAC so tokens
// signed with a different algorithm are rejected outright.
func (s *Service) parse(raw, wantKind string, secret []byte) (userID string, version int, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", 0, ErrTokenExpired
		}
		return "", 0, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", 0, ErrTokenInvalid
	}
	if kind, _ := claims["type"].(string); kind != wantKind {
		return "", 0, ErrTokenInvalid
	}
	userID, _ = claims["user_id"].(string)
	if userID == "" {
		return "", 0, ErrTokenInvalid
	}
	// JWT numbers decode as float64.
	v, ok := claims["version"].(float64)
	if !ok {
		return "", 0, ErrTokenInvalid
	}
	return userID, int(v), nil
}
