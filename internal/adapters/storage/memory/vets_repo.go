package memory

import (
	"context"
	"sort"

	"pet-clinic-platform/internal/domain/vets"
)

type VetsRepo struct {
	s *Store
}

func NewVetsRepo(s *Store) *VetsRepo {
	return &VetsRepo{s: s}
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vets[id]
	if !ok {
		return vets.Veterinarian{}, vets.ErrNotFound
	}
	return v, nil
}

func (r *VetsRepo) GetByUserID(ctx context.Context, userID string) (vets.Veterinarian, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.vets {
		if v.UserID == userID {
			return v, nil
		}
	}
	return vets.Veterinarian{}, vets.ErrNotFound
}

func (r *VetsRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]vets.Veterinarian, 0, len(r.s.vets))
	for _, v := range r.s.vets {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Veterinarian) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.vets[v.ID]; !exists {
		return vets.ErrNotFound
	}
	r.s.vets[v.ID] = v
	return nil
}

// DeleteCascade borra perfil y cuenta. Las mascotas que lo tenían como
// tratante quedan con vet vacío; los historiales conservan el autor
// histórico (referencia débil, no ownership).
func (r *VetsRepo) DeleteCascade(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.vets[id]
	if !ok {
		return vets.ErrNotFound
	}

	for petID, p := range r.s.pets {
		if p.VetID == id {
			p.VetID = ""
			r.s.pets[petID] = p
		}
	}

	delete(r.s.vets, id)
	delete(r.s.users, v.UserID)
	return nil
}
