package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pandenic/media-review-board/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Constraint names (or name suffixes) shared by every store so services can
// map conflicts back to the offending field.
const (
	ConstraintUsername     = "users_username_key"
	ConstraintEmail        = "users_email_key"
	ConstraintName         = "name_key"
	ConstraintSlug         = "slug_key"
	ConstraintUniqueReview = "unique_review"
)

// ConflictError reports a unique-constraint violation.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict on %s", e.Constraint) }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// On reports whether the violated constraint ends with suffix.
func (e *ConflictError) On(suffix string) bool { return strings.HasSuffix(e.Constraint, suffix) }

// IsConflictOn reports whether err is a conflict on a constraint ending with suffix.
func IsConflictOn(err error, suffix string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.On(suffix)
}

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// List filters by username substring when search is not empty.
	List(ctx context.Context, search string, p Page) ([]models.User, int, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id int64) error
	SetConfirmation(ctx context.Context, id int64, hash string) error
}

// Taxonomy is the store shared by categories and genres: named, slugged
// records looked up by slug.
type Taxonomy[T any] interface {
	List(ctx context.Context, search string, p Page) ([]T, int, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	Create(ctx context.Context, name, slug string) (T, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type Categories = Taxonomy[models.Category]
type Genres = Taxonomy[models.Genre]

type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}

// TitleInput is the writable part of a title with relations already
// resolved to ids.
type TitleInput struct {
	Name        string
	Year        int
	Description *string
	CategoryID  *int64
	GenreIDs    []int64
}

type Titles interface {
	List(ctx context.Context, f TitleFilter, p Page) ([]models.Title, int, error)
	Get(ctx context.Context, id int64) (models.Title, error)
	Create(ctx context.Context, in TitleInput) (models.Title, error)
	Update(ctx context.Context, id int64, in TitleInput) (models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type Reviews interface {
	List(ctx context.Context, titleID int64, p Page) ([]models.Review, int, error)
	Get(ctx context.Context, titleID, id int64) (models.Review, error)
	Exists(ctx context.Context, titleID, authorID int64) (bool, error)
	Create(ctx context.Context, r models.Review) (models.Review, error)
	Update(ctx context.Context, r models.Review) (models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type Comments interface {
	List(ctx context.Context, reviewID int64, p Page) ([]models.Comment, int, error)
	Get(ctx context.Context, reviewID, id int64) (models.Comment, error)
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	Update(ctx context.Context, c models.Comment) (models.Comment, error)
	Delete(ctx context.Context, reviewID, id int64) error
}

// Repositories bundles one implementation of every store.
type Repositories struct {
	Users      Users
	Categories Categories
	Genres     Genres
	Titles     Titles
	Reviews    Reviews
	Comments   Comments
}
