package auth

import (
	"context"
	"log"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// MFASetup is returned from SetupMFA. The secret stays staged in the cache
// until the user proves possession via EnableMFA.
type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// totpOpts are the standard parameters: 6 digits, 30-second step, one step
// of clock skew tolerated in either direction.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// SetupMFA generates a fresh TOTP secret for the user and stages it under a
// TTL'd cache key. Nothing is bound to the user record yet; a lost or
// abandoned setup simply expires.
func (s *Service) SetupMFA(ctx context.Context, userID string) (MFASetup, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return MFASetup{}, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.mfaIssuer,
		AccountName: u.Username,
	})
	if err != nil {
		return MFASetup{}, err
	}
	s.cache.Set(ctx, mfaSecretPrefix+userID, key.Secret(), s.mfaSetupTTL)
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// VerifyMFA checks a submitted code against the staged secret if one
// exists, otherwise against the permanently bound secret.
func (s *Service) VerifyMFA(ctx context.Context, userID, code string) (bool, error) {
	secret, err := s.mfaSecret(ctx, userID)
	if err != nil {
		return false, err
	}
	return validateCode(code, secret), nil
}

// EnableMFA verifies the code against the staged secret and, on success,
// persists the secret on the user record and clears staging.
func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	var staged string
	if !s.cache.Get(ctx, mfaSecretPrefix+userID, &staged) {
		return ErrMFASetupExpired
	}
	if !validateCode(code, staged) {
		return ErrMFAInvalid
	}
	if err := s.users.EnableMFA(ctx, userID, staged); err != nil {
		return err
	}
	s.cache.Del(ctx, mfaSecretPrefix+userID)
	return nil
}

// RequireMFA gates a sensitive operation. It is a no-op for users without
// MFA enabled; otherwise the submitted code must verify against the bound
// secret.
func (s *Service) RequireMFA(ctx context.Context, userID, code string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.MFAEnabled {
		return nil
	}
	if code == "" {
		return ErrMFARequired
	}
	if !validateCode(code, u.MFASecret) {
		return ErrMFAInvalid
	}
	return nil
}

func (s *Service) mfaSecret(ctx context.Context, userID string) (string, error) {
	var staged string
	if s.cache.Get(ctx, mfaSecretPrefix+userID, &staged) {
		return staged, nil
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.MFASecret == "" {
		return "", ErrMFANotConfigured
	}
	return u.MFASecret, nil
}

func validateCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totpOpts)
	if err != nil {
		log.Printf("auth: totp validation error: %v", err)
		return false
	}
	return ok
}
