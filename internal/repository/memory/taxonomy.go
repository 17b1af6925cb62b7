package memory

import (
	"context"
	"sort"

	"github.com/pandenic/media-review-board/internal/repository"
)

type taxonomyRepo[T any] struct {
	s        *Store
	table    string
	rows     map[int64]taxon
	build    func(id int64, name, slug string) T
	onDelete func(id int64)
}

func (r *taxonomyRepo[T]) List(_ context.Context, search string, p repository.Page) ([]T, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []taxon
	for _, t := range r.rows {
		if contains(t.name, search) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].name < matched[j].name })

	out := []T{}
	for _, t := range paginate(matched, p) {
		out = append(out, r.build(t.id, t.name, t.slug))
	}
	return out, len(matched), nil
}

func (r *taxonomyRepo[T]) GetBySlug(_ context.Context, slug string) (T, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.rows {
		if t.slug == slug {
			return r.build(t.id, t.name, t.slug), nil
		}
	}
	var zero T
	return zero, repository.ErrNotFound
}

func (r *taxonomyRepo[T]) Create(_ context.Context, name, slug string) (T, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var zero T
	for _, t := range r.rows {
		if t.name == name {
			return zero, &repository.ConflictError{Constraint: r.table + "_" + repository.ConstraintName}
		}
		if t.slug == slug {
			return zero, &repository.ConflictError{Constraint: r.table + "_" + repository.ConstraintSlug}
		}
	}
	t := taxon{id: r.s.nextID(r.table), name: name, slug: slug}
	r.rows[t.id] = t
	return r.build(t.id, t.name, t.slug), nil
}

func (r *taxonomyRepo[T]) DeleteBySlug(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.rows {
		if t.slug == slug {
			delete(r.rows, id)
			r.onDelete(id)
			return nil
		}
	}
	return repository.ErrNotFound
}
