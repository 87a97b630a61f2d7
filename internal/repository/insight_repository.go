package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/finance-flow/internal/model"
)

// InsightRepo persists the latest AI insight per user. user_id is the
// primary key, so saving replaces any prior record.
type InsightRepo struct{ DB *sql.DB }

func NewInsightRepo(db *sql.DB) *InsightRepo { return &InsightRepo{DB: db} }

// Latest returns the user's current insight record.
func (r *InsightRepo) Latest(ctx context.Context, userID string) (model.InsightRecord, error) {
	var rec model.InsightRecord
	var suggestions, flags []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, insights, suggestions, flags, period_start, period_end, generated_at
		FROM ai_insights WHERE user_id=? LIMIT 1`, userID).
		Scan(&rec.UserID, &rec.Insights, &suggestions, &flags, &rec.PeriodStart, &rec.PeriodEnd, &rec.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.InsightRecord{}, ErrNotFound
	}
	if err != nil {
		return model.InsightRecord{}, err
	}
	// Stored as JSON arrays; a decode failure leaves the slice empty rather
	// than failing the read.
	_ = json.Unmarshal(suggestions, &rec.Suggestions)
	_ = json.Unmarshal(flags, &rec.Flags)
	return rec, nil
}

// Save upserts the user's insight record, superseding any prior one.
func (r *InsightRepo) Save(ctx context.Context, rec model.InsightRecord) error {
	suggestions, err := json.Marshal(rec.Suggestions)
	if err != nil {
		return err
	}
	flags, err := json.Marshal(rec.Flags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO ai_insights (user_id, insights, suggestions, flags, period_start, period_end, generated_at)
		VALUES (?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			insights=VALUES(insights), suggestions=VALUES(suggestions), flags=VALUES(flags),
			period_start=VALUES(period_start), period_end=VALUES(period_end), generated_at=VALUES(generated_at)`,
		rec.UserID, rec.Insights, suggestions, flags, rec.PeriodStart, rec.PeriodEnd, rec.GeneratedAt.UTC())
	return err
}
