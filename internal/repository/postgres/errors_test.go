package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/pandenic/media-review-board/internal/repository"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: pgForeignKeyViolation}), repository.ErrNotFound)

	err := mapErr(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "categories_slug_key"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.True(t, repository.IsConflictOn(err, repository.ConstraintSlug))
	assert.False(t, repository.IsConflictOn(err, repository.ConstraintName))

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"":      "%%",
		"heat":  "%heat%",
		"50%":   `%50\%%`,
		"a_b":   `%a\_b%`,
		`c:\x`:  `%c:\\x%`,
		"фильм": "%фильм%",
	}
	for in, want := range tests {
		assert.Equal(t, want, likePattern(in), in)
	}
}
