package memory

import (
	"context"
	"sort"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type titlesRepo struct{ s *Store }

// view renders a stored row; the lock must be held.
func (r *titlesRepo) view(t titleRow) models.Title {
	out := models.Title{
		ID:          t.id,
		Name:        t.name,
		Year:        t.year,
		Description: t.description,
		Genres:      []models.Genre{},
	}
	if t.categoryID != nil {
		if c, ok := r.s.categories[*t.categoryID]; ok {
			out.Category = &models.Category{ID: c.id, Name: c.name, Slug: c.slug}
		}
	}
	for _, gid := range t.genreIDs {
		if g, ok := r.s.genres[gid]; ok {
			out.Genres = append(out.Genres, models.Genre{ID: g.id, Name: g.name, Slug: g.slug})
		}
	}
	sort.Slice(out.Genres, func(i, j int) bool { return out.Genres[i].Name < out.Genres[j].Name })

	var sum, n int
	for _, rv := range r.s.reviews {
		if rv.TitleID == t.id {
			sum += rv.Score
			n++
		}
	}
	if n > 0 {
		avg := float64(sum) / float64(n)
		out.Rating = &avg
	}
	return out
}

func (r *titlesRepo) matches(v models.Title, f repository.TitleFilter) bool {
	if f.Category != "" && (v.Category == nil || v.Category.Slug != f.Category) {
		return false
	}
	if f.Genre != "" {
		found := false
		for _, g := range v.Genres {
			if g.Slug == f.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Name != "" && !contains(v.Name, f.Name) {
		return false
	}
	if f.Year != nil && v.Year != *f.Year {
		return false
	}
	return true
}

func (r *titlesRepo) List(_ context.Context, f repository.TitleFilter, p repository.Page) ([]models.Title, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []models.Title
	for _, id := range sortedByID(r.s.titles) {
		v := r.view(r.s.titles[id])
		if r.matches(v, f) {
			all = append(all, v)
		}
	}
	return paginate(all, p), len(all), nil
}

func (r *titlesRepo) Get(_ context.Context, id int64) (models.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.titles[id]
	if !ok {
		return models.Title{}, repository.ErrNotFound
	}
	return r.view(t), nil
}

// checkRefs mirrors the foreign keys of titles and genre_title.
func (r *titlesRepo) checkRefs(in repository.TitleInput) error {
	if in.CategoryID != nil {
		if _, ok := r.s.categories[*in.CategoryID]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, g := range in.GenreIDs {
		if _, ok := r.s.genres[g]; !ok {
			return repository.ErrNotFound
		}
	}
	return nil
}

func row(id int64, in repository.TitleInput) titleRow {
	seen := map[int64]bool{}
	genres := []int64{}
	for _, g := range in.GenreIDs {
		if !seen[g] {
			seen[g] = true
			genres = append(genres, g)
		}
	}
	return titleRow{
		id:          id,
		name:        in.Name,
		year:        in.Year,
		description: in.Description,
		categoryID:  in.CategoryID,
		genreIDs:    genres,
	}
}

func (r *titlesRepo) Create(_ context.Context, in repository.TitleInput) (models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(in); err != nil {
		return models.Title{}, err
	}
	t := row(r.s.nextID("titles"), in)
	r.s.titles[t.id] = t
	return r.view(t), nil
}

func (r *titlesRepo) Update(_ context.Context, id int64, in repository.TitleInput) (models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[id]; !ok {
		return models.Title{}, repository.ErrNotFound
	}
	if err := r.checkRefs(in); err != nil {
		return models.Title{}, err
	}
	t := row(id, in)
	r.s.titles[id] = t
	return r.view(t), nil
}

func (r *titlesRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteTitle(id)
	return nil
}
