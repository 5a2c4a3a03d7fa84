package memory

import (
	"context"
	"sort"

	"pet-clinic-platform/internal/domain/owners"
)

type OwnersRepo struct {
	s *Store
}

func NewOwnersRepo(s *Store) *OwnersRepo {
	return &OwnersRepo{s: s}
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.owners[id]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *OwnersRepo) GetByUserID(ctx context.Context, userID string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.owners {
		if o.UserID == userID {
			return o, nil
		}
	}
	return owners.Owner{}, owners.ErrNotFound
}

func (r *OwnersRepo) GetByName(ctx context.Context, name string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.owners {
		if o.Name == name {
			return o, nil
		}
	}
	return owners.Owner{}, owners.ErrNotFound
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]owners.Owner, 0, len(r.s.owners))
	for _, o := range r.s.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.owners[o.ID]; !exists {
		return owners.ErrNotFound
	}
	for _, existing := range r.s.owners {
		if existing.ID != o.ID && existing.Name == o.Name {
			return owners.ErrNameTaken
		}
	}
	r.s.owners[o.ID] = o
	return nil
}

// DeleteCascade borra owner, mascotas, historiales y la cuenta, todo bajo
// un solo lock.
func (r *OwnersRepo) DeleteCascade(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.owners[id]
	if !ok {
		return owners.ErrNotFound
	}

	for petID, p := range r.s.pets {
		if p.OwnerID != id {
			continue
		}
		for recID, rec := range r.s.records {
			if rec.PetID == petID {
				delete(r.s.records, recID)
			}
		}
		delete(r.s.pets, petID)
	}

	delete(r.s.owners, id)
	delete(r.s.users, o.UserID)
	return nil
}
