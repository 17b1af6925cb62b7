package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pandenic/media-review-board/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repository.Repositories {
	return repository.Repositories{
		Users:      NewUsers(pool),
		Categories: NewCategories(pool),
		Genres:     NewGenres(pool),
		Titles:     NewTitles(pool),
		Reviews:    NewReviews(pool),
		Comments:   NewComments(pool),
	}
}
