package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/finance-flow/internal/model"
)

// UserRepo persists users. Users are never hard-deleted during normal
// operation.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with an already-hashed credential and returns the
// stored record.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (model.User, error) {
	username = strings.TrimSpace(username)
	u := model.User{ID: uuid.NewString(), Username: username, Password: passwordHash}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, password, mfa_enabled) VALUES (?,?,?,0)",
		u.ID, u.Username, u.Password)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id, username, password, mfa_enabled, COALESCE(mfa_secret,'') FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id, username, password, mfa_enabled, COALESCE(mfa_secret,'') FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// EnableMFA binds a verified TOTP secret to the user record.
func (r *UserRepo) EnableMFA(ctx context.Context, id, secret string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET mfa_enabled=1, mfa_secret=? WHERE id=?", secret, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.MFAEnabled, &u.MFASecret)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
