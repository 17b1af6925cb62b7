package memory

import (
	"context"
	"sort"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type reviewsRepo struct{ s *Store }

func (r *reviewsRepo) view(rv models.Review) models.Review {
	rv.Author = r.s.username(rv.AuthorID)
	return rv
}

func (r *reviewsRepo) List(_ context.Context, titleID int64, p repository.Page) ([]models.Review, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []models.Review
	for _, id := range sortedByID(r.s.reviews) {
		if rv := r.s.reviews[id]; rv.TitleID == titleID {
			all = append(all, r.view(rv))
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].PubDate.Before(all[j].PubDate) })
	return paginate(all, p), len(all), nil
}

func (r *reviewsRepo) Get(_ context.Context, titleID, id int64) (models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.TitleID != titleID {
		return models.Review{}, repository.ErrNotFound
	}
	return r.view(rv), nil
}

func (r *reviewsRepo) Exists(_ context.Context, titleID, authorID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID && rv.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *reviewsRepo) Create(_ context.Context, rv models.Review) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[rv.TitleID]; !ok {
		return models.Review{}, repository.ErrNotFound
	}
	if _, ok := r.s.users[rv.AuthorID]; !ok {
		return models.Review{}, repository.ErrNotFound
	}
	for _, other := range r.s.reviews {
		if other.TitleID == rv.TitleID && other.AuthorID == rv.AuthorID {
			return models.Review{}, &repository.ConflictError{Constraint: repository.ConstraintUniqueReview}
		}
	}
	rv.ID = r.s.nextID("reviews")
	rv.PubDate = r.s.now()
	r.s.reviews[rv.ID] = rv
	return r.view(rv), nil
}

func (r *reviewsRepo) Update(_ context.Context, rv models.Review) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.reviews[rv.ID]
	if !ok || cur.TitleID != rv.TitleID {
		return models.Review{}, repository.ErrNotFound
	}
	cur.Text = rv.Text
	cur.Score = rv.Score
	r.s.reviews[rv.ID] = cur
	return r.view(cur), nil
}

func (r *reviewsRepo) Delete(_ context.Context, titleID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.TitleID != titleID {
		return repository.ErrNotFound
	}
	r.s.deleteReview(id)
	return nil
}

type commentsRepo struct{ s *Store }

func (r *commentsRepo) view(c models.Comment) models.Comment {
	c.Author = r.s.username(c.AuthorID)
	return c
}

func (r *commentsRepo) List(_ context.Context, reviewID int64, p repository.Page) ([]models.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []models.Comment
	ids := sortedByID(r.s.comments)
	for i := len(ids) - 1; i >= 0; i-- {
		if c := r.s.comments[ids[i]]; c.ReviewID == reviewID {
			all = append(all, r.view(c))
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].PubDate.After(all[j].PubDate) })
	return paginate(all, p), len(all), nil
}

func (r *commentsRepo) Get(_ context.Context, reviewID, id int64) (models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return models.Comment{}, repository.ErrNotFound
	}
	return r.view(c), nil
}

func (r *commentsRepo) Create(_ context.Context, c models.Comment) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[c.ReviewID]; !ok {
		return models.Comment{}, repository.ErrNotFound
	}
	if _, ok := r.s.users[c.AuthorID]; !ok {
		return models.Comment{}, repository.ErrNotFound
	}
	c.ID = r.s.nextID("comments")
	c.PubDate = r.s.now()
	r.s.comments[c.ID] = c
	return r.view(c), nil
}

func (r *commentsRepo) Update(_ context.Context, c models.Comment) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments[c.ID]
	if !ok || cur.ReviewID != c.ReviewID {
		return models.Comment{}, repository.ErrNotFound
	}
	cur.Text = c.Text
	r.s.comments[c.ID] = cur
	return r.view(cur), nil
}

func (r *commentsRepo) Delete(_ context.Context, reviewID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}
