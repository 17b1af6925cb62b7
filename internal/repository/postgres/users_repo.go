package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser,
	confirmation_hash, confirmation_sent_at, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Bio, &u.Role, &u.Superuser,
		&u.ConfirmationHash, &u.ConfirmationSentAt, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(username, email, first_name, last_name, bio, role, is_superuser)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role, u.Superuser,
	))
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *usersRepo) List(ctx context.Context, search string, p repository.Page) ([]models.User, int, error) {
	pattern := likePattern(search)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE username ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+`
		   FROM users
		  WHERE username ILIKE $1
		  ORDER BY role, username
		  LIMIT $2 OFFSET $3`,
		pattern, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username=$2, email=$3, first_name=$4, last_name=$5, bio=$6, role=$7, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role,
	))
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetConfirmation stores a pending code hash; an empty hash clears it.
func (r *usersRepo) SetConfirmation(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		    SET confirmation_hash=$2,
		        confirmation_sent_at=CASE WHEN $2 = '' THEN NULL ELSE now() END
		  WHERE id=$1`,
		id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
