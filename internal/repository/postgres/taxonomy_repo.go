package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

// taxonomyRepo serves any (id, name, slug) table; build turns a row into T.
type taxonomyRepo[T any] struct {
	pool  *pgxpool.Pool
	table string
	build func(id int64, name, slug string) T
}

func NewCategories(pool *pgxpool.Pool) repository.Categories {
	return &taxonomyRepo[models.Category]{pool: pool, table: "categories",
		build: func(id int64, name, slug string) models.Category {
			return models.Category{ID: id, Name: name, Slug: slug}
		}}
}

func NewGenres(pool *pgxpool.Pool) repository.Genres {
	return &taxonomyRepo[models.Genre]{pool: pool, table: "genres",
		build: func(id int64, name, slug string) models.Genre {
			return models.Genre{ID: id, Name: name, Slug: slug}
		}}
}

func (r *taxonomyRepo[T]) List(ctx context.Context, search string, p repository.Page) ([]T, int, error) {
	pattern := likePattern(search)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM `+r.table+` WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug FROM `+r.table+`
		  WHERE name ILIKE $1
		  ORDER BY name
		  LIMIT $2 OFFSET $3`,
		pattern, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var (
			id         int64
			name, slug string
		)
		if err := rows.Scan(&id, &name, &slug); err != nil {
			return nil, 0, err
		}
		out = append(out, r.build(id, name, slug))
	}
	return out, total, rows.Err()
}

func (r *taxonomyRepo[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	var (
		id   int64
		name string
	)
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM `+r.table+` WHERE slug=$1`, slug).Scan(&id, &name)
	if err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return r.build(id, name, slug), nil
}

func (r *taxonomyRepo[T]) Create(ctx context.Context, name, slug string) (T, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO `+r.table+`(name, slug) VALUES($1,$2) RETURNING id`, name, slug).Scan(&id)
	if err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return r.build(id, name, slug), nil
}

func (r *taxonomyRepo[T]) DeleteBySlug(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE slug=$1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
