// Package memory is an in-process implementation of the repository
// interfaces. It mirrors the relational schema: unique keys, cascading
// deletes and SET NULL on category removal.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type taxon struct {
	id         int64
	name, slug string
}

type titleRow struct {
	id          int64
	name        string
	year        int
	description *string
	categoryID  *int64
	genreIDs    []int64
}

type Store struct {
	mu  sync.RWMutex
	seq map[string]int64
	now func() time.Time

	users      map[int64]models.User
	categories map[int64]taxon
	genres     map[int64]taxon
	titles     map[int64]titleRow
	reviews    map[int64]models.Review
	comments   map[int64]models.Comment
}

func NewStore() *Store {
	return &Store{
		seq:        map[string]int64{},
		now:        time.Now,
		users:      map[int64]models.User{},
		categories: map[int64]taxon{},
		genres:     map[int64]taxon{},
		titles:     map[int64]titleRow{},
		reviews:    map[int64]models.Review{},
		comments:   map[int64]models.Comment{},
	}
}

// NewRepositories returns every store backed by a fresh Store.
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users: &usersRepo{s},
		Categories: &taxonomyRepo[models.Category]{s: s, table: "categories", rows: s.categories,
			build: func(id int64, name, slug string) models.Category {
				return models.Category{ID: id, Name: name, Slug: slug}
			},
			onDelete: s.unlinkCategory,
		},
		Genres: &taxonomyRepo[models.Genre]{s: s, table: "genres", rows: s.genres,
			build: func(id int64, name, slug string) models.Genre {
				return models.Genre{ID: id, Name: name, Slug: slug}
			},
			onDelete: s.unlinkGenre,
		},
		Titles:   &titlesRepo{s},
		Reviews:  &reviewsRepo{s},
		Comments: &commentsRepo{s},
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) unlinkCategory(id int64) {
	for tid, t := range s.titles {
		if t.categoryID != nil && *t.categoryID == id {
			t.categoryID = nil
			s.titles[tid] = t
		}
	}
}

func (s *Store) unlinkGenre(id int64) {
	for tid, t := range s.titles {
		kept := t.genreIDs[:0:0]
		for _, g := range t.genreIDs {
			if g != id {
				kept = append(kept, g)
			}
		}
		t.genreIDs = kept
		s.titles[tid] = t
	}
}

func (s *Store) deleteTitle(id int64) {
	delete(s.titles, id)
	for rid, r := range s.reviews {
		if r.TitleID == id {
			s.deleteReview(rid)
		}
	}
}

func (s *Store) deleteReview(id int64) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) deleteUser(id int64) {
	delete(s.users, id)
	for rid, r := range s.reviews {
		if r.AuthorID == id {
			s.deleteReview(rid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) username(id int64) string { return s.users[id].Username }

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset < 0 || p.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}

func sortedByID[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
