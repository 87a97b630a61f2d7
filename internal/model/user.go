package model

// User represents an application user record as stored in the `users`
// table. The credential hash and the MFA secret are never serialized into
// API responses.
//
// Fields:
//
//	ID         – primary key identifier (UUID).
//	Username   – unique login name.
//	Password   – bcrypt hashed password.
//	MFAEnabled – whether TOTP verification gates sensitive operations.
//	MFASecret  – base32 TOTP secret, set once MFA has been enabled.
type User struct {
	ID         string `json:"id"`         // users.id
	Username   string `json:"username"`   // users.username
	Password   string `json:"-"`          // users.password
	MFAEnabled bool   `json:"mfaEnabled"` // users.mfa_enabled
	MFASecret  string `json:"-"`          // users.mfa_secret (nullable)
}
