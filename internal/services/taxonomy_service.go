package services

import (
	"context"

	repo "github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/validate"
)

type TaxonomyInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// TaxonomyService serves categories and genres.
type TaxonomyService[T any] struct {
	r repo.Taxonomy[T]
}

func NewTaxonomyService[T any](r repo.Taxonomy[T]) *TaxonomyService[T] {
	return &TaxonomyService[T]{r: r}
}

func (s *TaxonomyService[T]) List(ctx context.Context, search string, p repo.Page) ([]T, int, error) {
	return s.r.List(ctx, search, p)
}

func (s *TaxonomyService[T]) Create(ctx context.Context, in TaxonomyInput) (T, error) {
	var zero T
	errs, err := checkStruct(in)
	if err != nil {
		return zero, err
	}
	if len(errs) > 0 {
		return zero, errs
	}
	out, err := s.r.Create(ctx, in.Name, in.Slug)
	switch {
	case repo.IsConflictOn(err, repo.ConstraintName):
		return zero, validate.Field("name", MsgNameExists)
	case repo.IsConflictOn(err, repo.ConstraintSlug):
		return zero, validate.Field("slug", MsgSlugExists)
	case err != nil:
		return zero, err
	}
	return out, nil
}

func (s *TaxonomyService[T]) Delete(ctx context.Context, slug string) error {
	return s.r.DeleteBySlug(ctx, slug)
}
