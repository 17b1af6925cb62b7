package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type titlesRepo struct{ pool *pgxpool.Pool }

func NewTitles(pool *pgxpool.Pool) repository.Titles {
	return &titlesRepo{pool: pool}
}

const titleSelect = `
SELECT t.id, t.name, t.year, t.description,
       c.id, c.name, c.slug,
       (SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id)
  FROM titles t
  LEFT JOIN categories c ON c.id = t.category_id`

const titleWhere = `
 WHERE ($1::text = '' OR c.slug = $1::text)
   AND ($2::text = '' OR EXISTS (
         SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id
          WHERE gt.title_id = t.id AND g.slug = $2::text))
   AND t.name ILIKE $3::text
   AND ($4::int IS NULL OR t.year = $4::int)`

func scanTitle(row pgx.Row) (models.Title, error) {
	var (
		t                models.Title
		catID            *int64
		catName, catSlug *string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Year, &t.Description, &catID, &catName, &catSlug, &t.Rating); err != nil {
		return models.Title{}, mapErr(err)
	}
	if catID != nil {
		t.Category = &models.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	t.Genres = []models.Genre{}
	return t, nil
}

func (r *titlesRepo) List(ctx context.Context, f repository.TitleFilter, p repository.Page) ([]models.Title, int, error) {
	args := []any{f.Category, f.Genre, likePattern(f.Name), f.Year}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id`+titleWhere,
		args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, titleSelect+titleWhere+` ORDER BY t.id LIMIT $5 OFFSET $6`,
		append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Title{}
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadGenres(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *titlesRepo) Get(ctx context.Context, id int64) (models.Title, error) {
	t, err := scanTitle(r.pool.QueryRow(ctx, titleSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return models.Title{}, err
	}
	list := []models.Title{t}
	if err := r.loadGenres(ctx, list); err != nil {
		return models.Title{}, err
	}
	return list[0], nil
}

// loadGenres fills Genres for every title in one query.
func (r *titlesRepo) loadGenres(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	idx := make(map[int64]int, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		idx[t.ID] = i
	}
	rows, err := r.pool.Query(ctx,
		`SELECT gt.title_id, g.id, g.name, g.slug
		   FROM genre_title gt
		   JOIN genres g ON g.id = gt.genre_id
		  WHERE gt.title_id = ANY($1)
		  ORDER BY g.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			titleID int64
			g       models.Genre
		)
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return err
		}
		i := idx[titleID]
		titles[i].Genres = append(titles[i].Genres, g)
	}
	return rows.Err()
}

func (r *titlesRepo) Create(ctx context.Context, in repository.TitleInput) (models.Title, error) {
	var id int64
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO titles(name, year, description, category_id) VALUES($1,$2,$3,$4) RETURNING id`,
			in.Name, in.Year, in.Description, in.CategoryID,
		).Scan(&id)
		if err != nil {
			return err
		}
		return setGenres(ctx, tx, id, in.GenreIDs)
	})
	if err != nil {
		return models.Title{}, mapErr(err)
	}
	return r.Get(ctx, id)
}

func (r *titlesRepo) Update(ctx context.Context, id int64, in repository.TitleInput) (models.Title, error) {
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE titles SET name=$2, year=$3, description=$4, category_id=$5 WHERE id=$1`,
			id, in.Name, in.Year, in.Description, in.CategoryID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM genre_title WHERE title_id=$1`, id); err != nil {
			return err
		}
		return setGenres(ctx, tx, id, in.GenreIDs)
	})
	if err != nil {
		return models.Title{}, mapErr(err)
	}
	return r.Get(ctx, id)
}

func setGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO genre_title(title_id, genre_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT (title_id, genre_id) DO NOTHING`,
		titleID, genreIDs)
	return err
}

func (r *titlesRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM titles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *titlesRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
