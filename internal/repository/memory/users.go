package memory

import (
	"context"
	"sort"

	"github.com/pandenic/media-review-board/internal/models"
	"github.com/pandenic/media-review-board/internal/repository"
)

type usersRepo struct{ s *Store }

// checkUnique must be called with the lock held.
func (r *usersRepo) checkUnique(u models.User) error {
	for _, other := range r.s.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return &repository.ConflictError{Constraint: repository.ConstraintUsername}
		}
		if other.Email == u.Email {
			return &repository.ConflictError{Constraint: repository.ConstraintEmail}
		}
	}
	return nil
}

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.ID = 0
	if err := r.checkUnique(u); err != nil {
		return models.User{}, err
	}
	u.ID = r.s.nextID("users")
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	u.ConfirmationHash = ""
	u.ConfirmationSentAt = nil
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) find(match func(models.User) bool) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *usersRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *usersRepo) List(_ context.Context, search string, p repository.Page) ([]models.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []models.User
	for _, u := range r.s.users {
		if contains(u.Username, search) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Role != all[j].Role {
			return all[i].Role < all[j].Role
		}
		return all[i].Username < all[j].Username
	})
	return paginate(all, p), len(all), nil
}

func (r *usersRepo) Update(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return models.User{}, err
	}
	cur.Username = u.Username
	cur.Email = u.Email
	cur.FirstName = u.FirstName
	cur.LastName = u.LastName
	cur.Bio = u.Bio
	cur.Role = u.Role
	cur.UpdatedAt = r.s.now()
	r.s.users[u.ID] = cur
	return cur, nil
}

func (r *usersRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.deleteUser(id)
	return nil
}

func (r *usersRepo) SetConfirmation(_ context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ConfirmationHash = hash
	u.ConfirmationSentAt = nil
	if hash != "" {
		now := r.s.now()
		u.ConfirmationSentAt = &now
	}
	r.s.users[id] = u
	return nil
}
