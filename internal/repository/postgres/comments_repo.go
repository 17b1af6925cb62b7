package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type commentsRepo struct{ pool *pgxpool.Pool }

func NewComments(pool *pgxpool.Pool) repository.Comments {
	return &commentsRepo{pool: pool}
}

const commentSelect = `
SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
  FROM comments c
  JOIN users u ON u.id = c.author_id`

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate)
	return c, mapErr(err)
}

func (r *commentsRepo) List(ctx context.Context, reviewID int64, p repository.Page) ([]models.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM comments WHERE review_id=$1`, reviewID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, commentSelect+`
		WHERE c.review_id=$1
		ORDER BY c.pub_date DESC, c.id DESC
		LIMIT $2 OFFSET $3`, reviewID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *commentsRepo) Get(ctx context.Context, reviewID, id int64) (models.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.review_id=$1 AND c.id=$2`, reviewID, id))
}

func (r *commentsRepo) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments(review_id, author_id, text) VALUES($1,$2,$3) RETURNING id`,
		c.ReviewID, c.AuthorID, c.Text).Scan(&id)
	if err != nil {
		return models.Comment{}, mapErr(err)
	}
	return r.Get(ctx, c.ReviewID, id)
}

func (r *commentsRepo) Update(ctx context.Context, c models.Comment) (models.Comment, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET text=$3 WHERE review_id=$1 AND id=$2`, c.ReviewID, c.ID, c.Text)
	if err != nil {
		return models.Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Comment{}, repository.ErrNotFound
	}
	return r.Get(ctx, c.ReviewID, c.ID)
}

func (r *commentsRepo) Delete(ctx context.Context, reviewID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE review_id=$1 AND id=$2`, reviewID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
