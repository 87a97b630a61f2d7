package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/model"
)

// TransactionRepo persists transactions with a cache-through list read.
// Every mutation writes the database first and only then drops the cache
// keys it affects; the next read repopulates. The cache is never patched in
// place.
type TransactionRepo struct {
	DB    *sql.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewTransactionRepo(db *sql.DB, c cache.Cache, ttl time.Duration) *TransactionRepo {
	return &TransactionRepo{DB: db, Cache: c, TTL: ttl}
}

const transactionCols = "id, user_id, amount, description, category_id, date, type"

// List returns the user's transactions newest first, served from cache when
// possible.
func (r *TransactionRepo) List(ctx context.Context, userID string) ([]model.Transaction, error) {
	var cached []model.Transaction
	if r.Cache.Get(ctx, transactionsKey(userID), &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE user_id=? ORDER BY date DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.CategoryID, &t.Date, &t.Type); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, transactionsKey(userID), out, r.TTL)
	return out, nil
}

// Get fetches a single transaction by id.
func (r *TransactionRepo) Get(ctx context.Context, id string) (model.Transaction, error) {
	var t model.Transaction
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.CategoryID, &t.Date, &t.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, ErrNotFound
	}
	return t, err
}

// Create inserts a transaction and invalidates the owner's cached reads.
func (r *TransactionRepo) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	t.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionCols+") VALUES (?,?,?,?,?,?,?)",
		t.ID, t.UserID, t.Amount, t.Description, t.CategoryID, t.Date.UTC(), t.Type)
	if err != nil {
		return model.Transaction{}, err
	}
	r.invalidate(ctx, t.UserID)
	return t, nil
}

// TransactionPatch carries the optional fields of an update. Nil means
// leave unchanged.
type TransactionPatch struct {
	Amount      *string
	Description *string
	CategoryID  *string
	Date        *time.Time
	Type        *string
}

// Update applies a partial update scoped to the owning user and returns the
// fresh row.
func (r *TransactionRepo) Update(ctx context.Context, id, userID string, p TransactionPatch) (model.Transaction, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if existing.UserID != userID {
		return model.Transaction{}, ErrNotFound
	}

	sets := []string{}
	args := []any{}
	if p.Amount != nil {
		sets, args = append(sets, "amount=?"), append(args, *p.Amount)
	}
	if p.Description != nil {
		sets, args = append(sets, "description=?"), append(args, *p.Description)
	}
	if p.CategoryID != nil {
		sets, args = append(sets, "category_id=?"), append(args, *p.CategoryID)
	}
	if p.Date != nil {
		sets, args = append(sets, "date=?"), append(args, p.Date.UTC())
	}
	if p.Type != nil {
		sets, args = append(sets, "type=?"), append(args, *p.Type)
	}
	if len(sets) == 0 {
		return existing, nil
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
		return model.Transaction{}, err
	}
	r.invalidate(ctx, userID)
	return r.Get(ctx, id)
}

// Delete removes the user's transaction.
func (r *TransactionRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM transactions WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

// CountByUser returns the user's total number of transactions.
func (r *TransactionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE user_id=?", userID).Scan(&n)
	return n, err
}

// invalidate drops every cached read a transaction mutation can affect: the
// list itself, the spending summary, and all trend rollups regardless of the
// interval and limit they were requested with.
func (r *TransactionRepo) invalidate(ctx context.Context, userID string) {
	r.Cache.Del(ctx, transactionsKey(userID))
	r.Cache.Del(ctx, spendingKey(userID))
	r.Cache.DelPrefix(ctx, trendsPrefix(userID))
}
