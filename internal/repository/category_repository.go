package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/model"
)

// CategoryRepo persists the global category list. Categories are near
// static, so the shared cache entry gets a long TTL.
type CategoryRepo struct {
	DB    *sql.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewCategoryRepo(db *sql.DB, c cache.Cache, ttl time.Duration) *CategoryRepo {
	return &CategoryRepo{DB: db, Cache: c, TTL: ttl}
}

// List returns all categories, served from the shared cache entry when
// possible.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if r.Cache.Get(ctx, categoriesKey, &cached) {
		return cached, nil
	}
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, icon, color FROM categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		var icon, color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &icon, &color); err != nil {
			return nil, err
		}
		if icon.Valid {
			c.Icon = &icon.String
		}
		if color.Valid {
			c.Color = &color.String
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.Cache.Set(ctx, categoriesKey, out, r.TTL)
	return out, nil
}

// Create inserts a category and drops the shared cache entry.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	c.ID = uuid.NewString()
	var icon, color any
	if c.Icon != nil {
		icon = *c.Icon
	}
	if c.Color != nil {
		color = *c.Color
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (id, name, icon, color) VALUES (?,?,?,?)",
		c.ID, c.Name, icon, color)
	if err != nil {
		return model.Category{}, err
	}
	r.Cache.Del(ctx, categoriesKey)
	return c, nil
}
