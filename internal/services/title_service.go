package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pandenic/media-review-board/internal/models"
	repo "github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/validate"
)

// TitleInput is the write representation of a title. Relations are given
// by slug. On update only the non-nil fields change.
type TitleInput struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

type TitleService struct {
	titles     repo.Titles
	categories repo.Categories
	genres     repo.Genres
	now        func() time.Time
}

func NewTitleService(r repo.Repositories) *TitleService {
	return &TitleService{
		titles:     r.Titles,
		categories: r.Categories,
		genres:     r.Genres,
		now:        time.Now,
	}
}

func (s *TitleService) List(ctx context.Context, f repo.TitleFilter, p repo.Page) ([]models.Title, int, error) {
	return s.titles.List(ctx, f, p)
}

func (s *TitleService) Get(ctx context.Context, id int64) (models.Title, error) {
	return s.titles.Get(ctx, id)
}

func (s *TitleService) Create(ctx context.Context, in TitleInput) (models.Title, error) {
	var errs validate.Errs
	if in.Name == nil {
		errs = add(errs, "name", MsgRequired)
	}
	if in.Year == nil {
		errs = add(errs, "year", MsgRequired)
	}
	if in.Category == nil {
		errs = add(errs, "category", MsgRequired)
	}
	if in.Genre == nil {
		errs = add(errs, "genre", MsgRequired)
	}
	if len(errs) > 0 {
		return models.Title{}, errs
	}
	w, err := s.resolve(ctx, repo.TitleInput{}, in)
	if err != nil {
		return models.Title{}, err
	}
	return s.titles.Create(ctx, w)
}

// Update merges the given fields into the stored title.
func (s *TitleService) Update(ctx context.Context, id int64, in TitleInput) (models.Title, error) {
	cur, err := s.titles.Get(ctx, id)
	if err != nil {
		return models.Title{}, err
	}
	base := repo.TitleInput{
		Name:        cur.Name,
		Year:        cur.Year,
		Description: cur.Description,
	}
	if cur.Category != nil {
		base.CategoryID = &cur.Category.ID
	}
	for _, g := range cur.Genres {
		base.GenreIDs = append(base.GenreIDs, g.ID)
	}
	w, err := s.resolve(ctx, base, in)
	if err != nil {
		return models.Title{}, err
	}
	return s.titles.Update(ctx, id, w)
}

func (s *TitleService) Delete(ctx context.Context, id int64) error {
	return s.titles.Delete(ctx, id)
}

// resolve validates in, looks up its slugs and applies it over base.
func (s *TitleService) resolve(ctx context.Context, base repo.TitleInput, in TitleInput) (repo.TitleInput, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return base, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			errs = add(errs, "name", MsgRequired)
		}
		base.Name = *in.Name
	}
	if in.Year != nil {
		switch y := *in.Year; {
		case y < 0:
			errs = add(errs, "year", "must be greater than or equal to 0")
		case y > s.now().Year():
			errs = add(errs, "year", fmt.Sprintf("year %d has not come yet", y))
		}
		base.Year = *in.Year
	}
	if in.Description != nil {
		base.Description = in.Description
	}
	if in.Category != nil {
		c, err := s.categories.GetBySlug(ctx, *in.Category)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			errs = add(errs, "category", missingSlug(*in.Category))
		case err != nil:
			return base, err
		default:
			base.CategoryID = &c.ID
		}
	}
	if in.Genre != nil {
		ids := make([]int64, 0, len(*in.Genre))
		for _, slug := range *in.Genre {
			g, err := s.genres.GetBySlug(ctx, slug)
			switch {
			case errors.Is(err, repo.ErrNotFound):
				errs = add(errs, "genre", missingSlug(slug))
			case err != nil:
				return base, err
			default:
				ids = append(ids, g.ID)
			}
		}
		base.GenreIDs = ids
	}
	return base, failed(errs)
}

func missingSlug(slug string) string {
	return fmt.Sprintf("object with slug=%s does not exist", slug)
}
