package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/config"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// Cache key prefixes. Version counters have no TTL; blacklist entries
// expire after the maximum token lifetime so the store never grows
// unbounded.
const (
	tokenVersionPrefix   = "token:version:"
	tokenBlacklistPrefix = "token:blacklist:"
	mfaSecretPrefix      = "mfa:secret:"
)

// UserStore is the slice of user persistence the auth service needs.
// Implementations report a missing user with repository.ErrNotFound.
type UserStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	EnableMFA(ctx context.Context, id, secret string) error
}

// Service bundles the token-lifecycle and MFA state. It is constructed once
// at process start and shared by middleware and handlers.
type Service struct {
	cache cache.Cache
	users UserStore

	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	blacklistTTL  time.Duration

	mfaIssuer   string
	mfaSetupTTL time.Duration
}

// NewService wires the auth service from configuration.
func NewService(c cache.Cache, users UserStore, cfg config.Config) *Service {
	return &Service{
		cache:         c,
		users:         users,
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		blacklistTTL:  cfg.BlacklistTTL,
		mfaIssuer:     cfg.MFAIssuer,
		mfaSetupTTL:   cfg.MFASetupTTL,
	}
}

// TokenVersion returns the current revocation counter for a user, 0 if the
// user has never revoked anything.
func (s *Service) TokenVersion(ctx context.Context, userID string) int {
	var v int
	if s.cache.Get(ctx, tokenVersionPrefix+userID, &v) {
		return v
	}
	return 0
}

// IncrementTokenVersion bumps the revocation counter, invalidating every
// token stamped with the previous value. Best-effort read-then-write is
// acceptable here: a racing double increment just invalidates one extra
// round of tokens, which is safe.
func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) int {
	next := s.TokenVersion(ctx, userID) + 1
	s.cache.Set(ctx, tokenVersionPrefix+userID, next, 0)
	return next
}

// RevokeAll invalidates every outstanding access and refresh token for the
// user by bumping the version counter.
func (s *Service) RevokeAll(ctx context.Context, userID string) int {
	return s.IncrementTokenVersion(ctx, userID)
}

// BlacklistToken revokes one specific token without touching the user's
// other sessions. Only the SHA-256 digest is retained.
func (s *Service) BlacklistToken(ctx context.Context, token, userID string) {
	s.cache.Set(ctx, tokenBlacklistPrefix+hashToken(token), userID, s.blacklistTTL)
}

// IsTokenBlacklisted reports whether the token was individually revoked.
func (s *Service) IsTokenBlacklisted(ctx context.Context, token string) bool {
	var owner string
	return s.cache.Get(ctx, tokenBlacklistPrefix+hashToken(token), &owner)
}

func (s *Service) loadUser(ctx context.Context, id string) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// hashToken returns the SHA-256 hex digest of a token. Raw tokens must not
// be retained server-side.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
