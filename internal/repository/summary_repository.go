package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
)

// CategorySpend is one row of the spending summary: total expenses for a
// category as a 2dp decimal string. Categories with no expense activity are
// omitted, not zero-filled.
type CategorySpend struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// SummaryRepo serves the aggregate read paths: spending by category and
// time-bucketed trends. Both are cache-through with a short TTL.
type SummaryRepo struct {
	DB    *sql.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewSummaryRepo(db *sql.DB, c cache.Cache, ttl time.Duration) *SummaryRepo {
	return &SummaryRepo{DB: db, Cache: c, TTL: ttl}
}

// Spending aggregates the user's expense transactions by category, largest
// total first. Summing happens in SQL over the exact DECIMAL column.
func (r *SummaryRepo) Spending(ctx context.Context, userID string) ([]CategorySpend, error) {
	var cached []CategorySpend
	if r.Cache.Get(ctx, spendingKey(userID), &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.name, CAST(SUM(t.amount) AS CHAR)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ? AND t.type = 'expense'
		GROUP BY c.name
		ORDER BY SUM(t.amount) DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CategorySpend{}
	for rows.Next() {
		var s CategorySpend
		if err := rows.Scan(&s.Category, &s.Amount); err != nil {
			return nil, err
		}
		if norm, err := money.Normalize(s.Amount); err == nil {
			s.Amount = norm
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, spendingKey(userID), out, r.TTL)
	return out, nil
}

// Trends loads the user's transactions and rolls them into limit calendar
// buckets ending now. The scan stays in Go (see ComputeTrends) so the
// zero-fill contract holds regardless of the SQL engine's date functions.
func (r *SummaryRepo) Trends(ctx context.Context, userID, interval string, limit int) ([]TrendPoint, error) {
	key := trendsKey(userID, interval, limit)
	var cached []TrendPoint
	if r.Cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT amount, date, type FROM transactions WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.Amount, &t.Date, &t.Type); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	points := ComputeTrends(txs, interval, limit, time.Now().UTC())
	r.Cache.Set(ctx, key, points, r.TTL)
	return points, nil
}
