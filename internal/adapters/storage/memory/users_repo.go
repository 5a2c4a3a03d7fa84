package memory

import (
	"context"
	"sort"
	"strings"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/users"
	"pet-clinic-platform/internal/domain/vets"
)

type UsersRepo struct {
	s *Store
}

func NewUsersRepo(s *Store) *UsersRepo {
	return &UsersRepo{s: s}
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.findByEmail(email)
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]users.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.findByEmail(u.Email); exists {
		return users.ErrEmailTaken
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *UsersRepo) CreateOwnerAccount(ctx context.Context, u users.User, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.findByEmail(u.Email); exists {
		return users.ErrEmailTaken
	}
	for _, existing := range r.s.owners {
		if existing.Name == o.Name {
			return users.ErrNameTaken
		}
	}

	// bajo el mismo lock: o entran los dos o ninguno
	r.s.users[u.ID] = u
	r.s.owners[o.ID] = o
	return nil
}

func (r *UsersRepo) CreateVetAccount(ctx context.Context, u users.User, v vets.Veterinarian) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.findByEmail(u.Email); exists {
		return users.ErrEmailTaken
	}

	r.s.users[u.ID] = u
	r.s.vets[v.ID] = v
	return nil
}

// findByEmail asume que el caller ya tiene el lock.
func (r *UsersRepo) findByEmail(email string) (users.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return u, true
		}
	}
	return users.User{}, false
}
