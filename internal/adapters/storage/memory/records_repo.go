package memory

import (
	"context"
	"sort"
	"time"

	"pet-clinic-platform/internal/domain/pets"
	"pet-clinic-platform/internal/domain/records"
)

type RecordsRepo struct {
	s *Store
}

func NewRecordsRepo(s *Store) *RecordsRepo {
	return &RecordsRepo{s: s}
}

// Create verifica la mascota bajo el mismo lock, como hace la FK en postgres:
// un registro no puede colarse después de que un DeleteCascade gane la carrera.
func (r *RecordsRepo) Create(ctx context.Context, rec records.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[rec.PetID]; !ok {
		return pets.ErrNotFound
	}
	r.s.records[rec.ID] = rec
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.MedicalRecord{}, records.ErrNotFound
	}
	return rec, nil
}

func (r *RecordsRepo) List(ctx context.Context, f records.Filter) ([]records.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]records.MedicalRecord, 0)
	for _, rec := range r.s.records {
		if f.PetID != "" && rec.PetID != f.PetID {
			continue
		}
		if f.VetID != "" && rec.VetID != f.VetID {
			continue
		}
		out = append(out, rec)
	}

	// cita más reciente primero, como el listado original
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		if out[i].AppointmentDate != nil {
			ti = *out[i].AppointmentDate
		}
		if out[j].AppointmentDate != nil {
			tj = *out[j].AppointmentDate
		}
		return ti.After(tj)
	})
	return out, nil
}

// UpdateOwned hace load + chequeo de autor + mutación bajo el mismo lock:
// no hay ventana donde el registro pueda reasignarse entre leer y escribir.
func (r *RecordsRepo) UpdateOwned(ctx context.Context, id, vetID string, fields records.UpdateFields, updatedAt time.Time) (records.MedicalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.MedicalRecord{}, records.ErrNotFound
	}
	if rec.VetID != vetID {
		return records.MedicalRecord{}, records.ErrNotAuthor
	}

	if fields.Diagnosis != nil {
		rec.Diagnosis = *fields.Diagnosis
	}
	if fields.Treatment != nil {
		rec.Treatment = *fields.Treatment
	}
	if fields.AppointmentDate != nil {
		rec.AppointmentDate = *fields.AppointmentDate
	}
	rec.UpdatedAt = updatedAt

	r.s.records[id] = rec
	return rec, nil
}

func (r *RecordsRepo) DeleteOwned(ctx context.Context, id, vetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.ErrNotFound
	}
	if rec.VetID != vetID {
		return records.ErrNotAuthor
	}

	delete(r.s.records, id)
	return nil
}
