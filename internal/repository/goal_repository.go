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

// GoalRepo persists savings goals.
type GoalRepo struct {
	DB    *sql.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewGoalRepo(db *sql.DB, c cache.Cache, ttl time.Duration) *GoalRepo {
	return &GoalRepo{DB: db, Cache: c, TTL: ttl}
}

const goalCols = "id, user_id, name, target_amount, current_amount, deadline, created_at"

// List returns the user's goals, served from cache when possible.
func (r *GoalRepo) List(ctx context.Context, userID string) ([]model.Goal, error) {
	var cached []model.Goal
	if r.Cache.Get(ctx, goalsKey(userID), &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+goalCols+" FROM goals WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Goal{}
	for rows.Next() {
		var g model.Goal
		var deadline sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		if deadline.Valid {
			d := deadline.Time
			g.Deadline = &d
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, goalsKey(userID), out, r.TTL)
	return out, nil
}

// Get fetches a single goal by id.
func (r *GoalRepo) Get(ctx context.Context, id string) (model.Goal, error) {
	var g model.Goal
	var deadline sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+goalCols+" FROM goals WHERE id=? LIMIT 1", id).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goal{}, ErrNotFound
	}
	if deadline.Valid {
		d := deadline.Time
		g.Deadline = &d
	}
	return g, err
}

// Create inserts a goal and drops the owner's cached list.
func (r *GoalRepo) Create(ctx context.Context, g model.Goal) (model.Goal, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()
	var deadline any
	if g.Deadline != nil {
		deadline = g.Deadline.UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO goals ("+goalCols+") VALUES (?,?,?,?,?,?,?)",
		g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, deadline, g.CreatedAt)
	if err != nil {
		return model.Goal{}, err
	}
	r.Cache.Del(ctx, goalsKey(g.UserID))
	return g, nil
}

// GoalPatch carries the optional fields of an update.
type GoalPatch struct {
	Name          *string
	TargetAmount  *string
	CurrentAmount *string
	Deadline      *time.Time
}

// Update applies a partial update scoped to the owning user.
func (r *GoalRepo) Update(ctx context.Context, id, userID string, p GoalPatch) (model.Goal, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return model.Goal{}, err
	}
	if existing.UserID != userID {
		return model.Goal{}, ErrNotFound
	}

	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets, args = append(sets, "name=?"), append(args, *p.Name)
	}
	if p.TargetAmount != nil {
		sets, args = append(sets, "target_amount=?"), append(args, *p.TargetAmount)
	}
	if p.CurrentAmount != nil {
		sets, args = append(sets, "current_amount=?"), append(args, *p.CurrentAmount)
	}
	if p.Deadline != nil {
		sets, args = append(sets, "deadline=?"), append(args, p.Deadline.UTC())
	}
	if len(sets) == 0 {
		return existing, nil
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
		return model.Goal{}, err
	}
	r.Cache.Del(ctx, goalsKey(userID))
	return r.Get(ctx, id)
}

// Delete removes the user's goal.
func (r *GoalRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM goals WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.Cache.Del(ctx, goalsKey(userID))
	return nil
}
