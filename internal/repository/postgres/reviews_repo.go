package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type reviewsRepo struct{ pool *pgxpool.Pool }

func NewReviews(pool *pgxpool.Pool) repository.Reviews {
	return &reviewsRepo{pool: pool}
}

const reviewSelect = `
SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
  FROM reviews r
  JOIN users u ON u.id = r.author_id`

func scanReview(row pgx.Row) (models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.TitleID, &rv.AuthorID, &rv.Author, &rv.Text, &rv.Score, &rv.PubDate)
	return rv, mapErr(err)
}

func (r *reviewsRepo) List(ctx context.Context, titleID int64, p repository.Page) ([]models.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews WHERE title_id=$1`, titleID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, reviewSelect+`
		WHERE r.title_id=$1
		ORDER BY r.pub_date, r.id
		LIMIT $2 OFFSET $3`, titleID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func (r *reviewsRepo) Get(ctx context.Context, titleID, id int64) (models.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, reviewSelect+` WHERE r.title_id=$1 AND r.id=$2`, titleID, id))
}

func (r *reviewsRepo) Exists(ctx context.Context, titleID, authorID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE title_id=$1 AND author_id=$2)`,
		titleID, authorID).Scan(&exists)
	return exists, err
}

// Create relies on the unique_review constraint to reject a second review
// by the same author racing past the service check.
func (r *reviewsRepo) Create(ctx context.Context, rv models.Review) (models.Review, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews(title_id, author_id, text, score) VALUES($1,$2,$3,$4) RETURNING id`,
		rv.TitleID, rv.AuthorID, rv.Text, rv.Score).Scan(&id)
	if err != nil {
		return models.Review{}, mapErr(err)
	}
	return r.Get(ctx, rv.TitleID, id)
}

func (r *reviewsRepo) Update(ctx context.Context, rv models.Review) (models.Review, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET text=$3, score=$4 WHERE title_id=$1 AND id=$2`,
		rv.TitleID, rv.ID, rv.Text, rv.Score)
	if err != nil {
		return models.Review{}, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.Review{}, repository.ErrNotFound
	}
	return r.Get(ctx, rv.TitleID, rv.ID)
}

func (r *reviewsRepo) Delete(ctx context.Context, titleID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE title_id=$1 AND id=$2`, titleID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
