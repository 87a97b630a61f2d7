// Package auth implements the session-integrity layer: JWT access/refresh
// token issuance and verification, per-user version counters for mass
// revocation, a hash-keyed blacklist for single-token revocation, and the
// TOTP validator gating sensitive operations.
package auth

import "errors"

// Verification failures are distinguishable by kind so the HTTP layer can
// tell clients whether a silent refresh is worth attempting (only after
// ErrTokenExpired) or re-authentication is required.
var (
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrTokenRevoked    = errors.New("token has been revoked")
	ErrVersionMismatch = errors.New("token version mismatch")
	ErrUserNotFound    = errors.New("user not found")
)

// MFA failures.
var (
	ErrMFARequired      = errors.New("MFA token required")
	ErrMFAInvalid       = errors.New("invalid MFA token")
	ErrMFANotConfigured = errors.New("MFA not set up for user")
	ErrMFASetupExpired  = errors.New("MFA setup expired")
)
