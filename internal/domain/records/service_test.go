package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-clinic-platform/internal/domain/pets"
)

// -------------------------
// Test repo + pet binder
// -------------------------

type testRepo struct {
	byID map[string]MedicalRecord
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]MedicalRecord{}}
}

func (r *testRepo) Create(ctx context.Context, rec MedicalRecord) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (MedicalRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return MedicalRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]MedicalRecord, error) {
	out := make([]MedicalRecord, 0)
	for _, rec := range r.byID {
		if f.PetID != "" && rec.PetID != f.PetID {
			continue
		}
		if f.VetID != "" && rec.VetID != f.VetID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *testRepo) UpdateOwned(ctx context.Context, id, vetID string, fields UpdateFields, updatedAt time.Time) (MedicalRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return MedicalRecord{}, ErrNotFound
	}
	if rec.VetID != vetID {
		return MedicalRecord{}, ErrNotAuthor
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
	r.byID[id] = rec
	return rec, nil
}

func (r *testRepo) DeleteOwned(ctx context.Context, id, vetID string) error {
	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if rec.VetID != vetID {
		return ErrNotAuthor
	}
	delete(r.byID, id)
	return nil
}

// testBinder simula el módulo de mascotas: mascotas conocidas y la
// asignación de vet tratante, que puede forzarse a fallar.
type testBinder struct {
	owners     map[string]string // petID -> ownerID
	assigned   map[string]string // petID -> vetID
	assignFail bool
}

func newTestBinder(petID, ownerID string) *testBinder {
	return &testBinder{
		owners:   map[string]string{petID: ownerID},
		assigned: map[string]string{},
	}
}

func (b *testBinder) OwnerOf(ctx context.Context, petID string) (string, error) {
	owner, ok := b.owners[petID]
	if !ok {
		return "", pets.ErrNotFound
	}
	return owner, nil
}

func (b *testBinder) AssignVet(ctx context.Context, petID, vetID string) error {
	if b.assignFail {
		return errors.New("assign failed")
	}
	b.assigned[petID] = vetID
	return nil
}

func validCreate() CreateInput {
	return CreateInput{
		PetID:     "p-1",
		VetID:     "v-1",
		Diagnosis: "otitis",
		Treatment: "gotas 7 días",
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_AssignsTreatingVet(t *testing.T) {
	binder := newTestBinder("p-1", "o-1")
	svc := NewService(newTestRepo(), binder, nil)

	rec, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.VetID != "v-1" {
		t.Fatalf("expected author v-1, got %s", rec.VetID)
	}
	if binder.assigned["p-1"] != "v-1" {
		t.Fatalf("treating vet not assigned: %v", binder.assigned)
	}
}

func TestCreate_SucceedsEvenIfAssignFails(t *testing.T) {
	// La asignación del vet tratante es best-effort: el historial queda
	// escrito aunque el update de la mascota falle.
	binder := newTestBinder("p-1", "o-1")
	binder.assignFail = true
	repo := newTestRepo()
	svc := NewService(repo, binder, nil)

	rec, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create should succeed despite assign failure: %v", err)
	}
	if _, ok := repo.byID[rec.ID]; !ok {
		t.Fatal("record not persisted")
	}
}

func TestCreate_UnknownPet(t *testing.T) {
	svc := NewService(newTestRepo(), newTestBinder("p-1", "o-1"), nil)

	in := validCreate()
	in.PetID = "p-ghost"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected pets.ErrNotFound, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), newTestBinder("p-1", "o-1"), nil)
	ctx := context.Background()

	for i, mutate := range []func(*CreateInput){
		func(in *CreateInput) { in.PetID = "" },
		func(in *CreateInput) { in.VetID = "  " },
		func(in *CreateInput) { in.Diagnosis = "" },
		func(in *CreateInput) { in.Treatment = "   " },
	} {
		in := validCreate()
		mutate(&in)
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestUpdate_OnlyAuthor(t *testing.T) {
	svc := NewService(newTestRepo(), newTestBinder("p-1", "o-1"), nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	diag := "otitis media"
	if _, err := svc.Update(ctx, rec.ID, "v-2", UpdateInput{Diagnosis: &diag}); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor for v-2, got %v", err)
	}

	updated, err := svc.Update(ctx, rec.ID, "v-1", UpdateInput{Diagnosis: &diag})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Diagnosis != "otitis media" {
		t.Fatalf("diagnosis not updated: %+v", updated)
	}
}

func TestUpdate_ClearAppointmentDate(t *testing.T) {
	svc := NewService(newTestRepo(), newTestBinder("p-1", "o-1"), nil)
	ctx := context.Background()

	date := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	in := validCreate()
	in.AppointmentDate = &date
	rec, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var cleared *time.Time
	updated, err := svc.Update(ctx, rec.ID, "v-1", UpdateInput{AppointmentDate: &cleared})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AppointmentDate != nil {
		t.Fatalf("appointment date not cleared: %v", updated.AppointmentDate)
	}
}

func TestDelete_OnlyAuthor(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, newTestBinder("p-1", "o-1"), nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, rec.ID, "v-2"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	if err := svc.Delete(ctx, rec.ID, "v-1"); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("record still present after delete")
	}

	if err := svc.Delete(ctx, rec.ID, "v-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
