package memory

import (
	"context"
	"sort"

	"pet-clinic-platform/internal/domain/pets"
)

type PetsRepo struct {
	s *Store
}

func NewPetsRepo(s *Store) *PetsRepo {
	return &PetsRepo{s: s}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.pets {
		if existing.Code == p.Code {
			return pets.ErrCodeTaken
		}
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *PetsRepo) GetByCode(ctx context.Context, code string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.pets {
		if p.Code == code {
			return p, nil
		}
	}
	return pets.Pet{}, pets.ErrNotFound
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.VetID != "" && !r.treatedBy(p.ID, f.VetID) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, exists := r.s.pets[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// code y owner son inmutables por esta vía; vet_id solo cambia vía AssignVet
	p.Code = current.Code
	p.OwnerID = current.OwnerID
	p.VetID = current.VetID
	r.s.pets[p.ID] = p
	return nil
}

func (r *PetsRepo) AssignVet(ctx context.Context, petID, vetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pets[petID]
	if !ok {
		return pets.ErrNotFound
	}
	p.VetID = vetID
	r.s.pets[petID] = p
	return nil
}

// DeleteCascade borra mascota + historiales bajo un solo lock: un lector
// concurrente ve todo o nada.
func (r *PetsRepo) DeleteCascade(ctx context.Context, petID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[petID]; !ok {
		return pets.ErrNotFound
	}

	for recID, rec := range r.s.records {
		if rec.PetID == petID {
			delete(r.s.records, recID)
		}
	}
	delete(r.s.pets, petID)
	return nil
}

// NextCodeNumber implementa pets.CodeAllocator serializado por el lock del store.
func (r *PetsRepo) NextCodeNumber(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.petSeq++
	return r.s.petSeq, nil
}

// treatedBy asume que el caller tiene el lock.
func (r *PetsRepo) treatedBy(petID, vetID string) bool {
	for _, rec := range r.s.records {
		if rec.PetID == petID && rec.VetID == vetID {
			return true
		}
	}
	return false
}
