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

// BudgetRepo persists budgets under the same cache-through/invalidate
// contract as transactions.
type BudgetRepo struct {
	DB    *sql.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewBudgetRepo(db *sql.DB, c cache.Cache, ttl time.Duration) *BudgetRepo {
	return &BudgetRepo{DB: db, Cache: c, TTL: ttl}
}

const budgetCols = "id, user_id, category_id, amount, period, month, year"

// List returns the user's budgets, served from cache when possible.
func (r *BudgetRepo) List(ctx context.Context, userID string) ([]model.Budget, error) {
	var cached []model.Budget
	if r.Cache.Get(ctx, budgetsKey(userID), &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+budgetCols+" FROM budgets WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Budget{}
	for rows.Next() {
		var b model.Budget
		var month sql.NullInt64
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &month, &b.Year); err != nil {
			return nil, err
		}
		if month.Valid {
			m := int(month.Int64)
			b.Month = &m
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, budgetsKey(userID), out, r.TTL)
	return out, nil
}

// Get fetches a single budget by id.
func (r *BudgetRepo) Get(ctx context.Context, id string) (model.Budget, error) {
	var b model.Budget
	var month sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+budgetCols+" FROM budgets WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &month, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Budget{}, ErrNotFound
	}
	if month.Valid {
		m := int(month.Int64)
		b.Month = &m
	}
	return b, err
}

// Create inserts a budget and drops the owner's cached list.
func (r *BudgetRepo) Create(ctx context.Context, b model.Budget) (model.Budget, error) {
	b.ID = uuid.NewString()
	var month any
	if b.Month != nil {
		month = *b.Month
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO budgets ("+budgetCols+") VALUES (?,?,?,?,?,?,?)",
		b.ID, b.UserID, b.CategoryID, b.Amount, b.Period, month, b.Year)
	if err != nil {
		return model.Budget{}, err
	}
	r.Cache.Del(ctx, budgetsKey(b.UserID))
	return b, nil
}

// BudgetPatch carries the optional fields of an update.
type BudgetPatch struct {
	CategoryID *string
	Amount     *string
	Period     *string
	Month      *int
	Year       *int
}

// Update applies a partial update scoped to the owning user.
func (r *BudgetRepo) Update(ctx context.Context, id, userID string, p BudgetPatch) (model.Budget, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return model.Budget{}, err
	}
	if existing.UserID != userID {
		return model.Budget{}, ErrNotFound
	}

	sets := []string{}
	args := []any{}
	if p.CategoryID != nil {
		sets, args = append(sets, "category_id=?"), append(args, *p.CategoryID)
	}
	if p.Amount != nil {
		sets, args = append(sets, "amount=?"), append(args, *p.Amount)
	}
	if p.Period != nil {
		sets, args = append(sets, "period=?"), append(args, *p.Period)
	}
	if p.Month != nil {
		sets, args = append(sets, "month=?"), append(args, *p.Month)
	}
	if p.Year != nil {
		sets, args = append(sets, "year=?"), append(args, *p.Year)
	}
	if len(sets) == 0 {
		return existing, nil
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE budgets SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
		return model.Budget{}, err
	}
	r.Cache.Del(ctx, budgetsKey(userID))
	return r.Get(ctx, id)
}

// Delete removes the user's budget.
func (r *BudgetRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM budgets WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.Cache.Del(ctx, budgetsKey(userID))
	return nil
}
