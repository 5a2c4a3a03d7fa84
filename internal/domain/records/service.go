package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-clinic-platform/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medical record not found")

	// ErrNotAuthor: el vet que pide la mutación no es el autor del registro.
	ErrNotAuthor = errors.New("not the record author")
)

// PetBinder es lo que records necesita del módulo pets: verificar que la
// mascota existe y marcar al vet tratante. Lo satisface *pets.Service.
type PetBinder interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
	AssignVet(ctx context.Context, petID, vetID string) error
}

type Service struct {
	repo Repository
	pets PetBinder
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pets PetBinder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		pets: pets,
		log:  log,
		now:  time.Now,
	}
}

type CreateInput struct {
	PetID           string
	VetID           string
	Diagnosis       string
	Treatment       string
	AppointmentDate *time.Time
}

// Create registra la atención y después marca al vet como tratante actual de
// la mascota. El registro se escribe primero; la asignación del vet es
// metadata best-effort: si falla, se loguea y el create igual se reporta
// como exitoso. (Garantía deliberadamente más débil que el cascade-delete.)
func (s *Service) Create(ctx context.Context, in CreateInput) (MedicalRecord, error) {
	petID := strings.TrimSpace(in.PetID)
	vetID := strings.TrimSpace(in.VetID)

	if petID == "" || vetID == "" ||
		strings.TrimSpace(in.Diagnosis) == "" ||
		strings.TrimSpace(in.Treatment) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}

	// la mascota tiene que existir antes de escribir nada
	if _, err := s.pets.OwnerOf(ctx, petID); err != nil {
		return MedicalRecord{}, err
	}

	now := s.now()
	rec := MedicalRecord{
		ID:              uuid.NewString(),
		PetID:           petID,
		VetID:           vetID,
		Diagnosis:       strings.TrimSpace(in.Diagnosis),
		Treatment:       strings.TrimSpace(in.Treatment),
		AppointmentDate: in.AppointmentDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return MedicalRecord{}, err
	}

	if err := s.pets.AssignVet(ctx, petID, vetID); err != nil {
		s.log.Warn("record created but treating-vet assignment failed", map[string]any{
			"record_id": rec.ID,
			"pet_id":    petID,
			"vet_id":    vetID,
			"err":       err.Error(),
		})
	}

	return rec, nil
}

// PetOwner devuelve el dueño de la mascota. Lo usan los chequeos de
// autorización: un dueño solo ve historiales de sus propias mascotas.
func (s *Service) PetOwner(ctx context.Context, petID string) (string, error) {
	return s.pets.OwnerOf(ctx, petID)
}

func (s *Service) GetByID(ctx context.Context, id string) (MedicalRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]MedicalRecord, error) {
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Diagnosis       *string
	Treatment       *string
	AppointmentDate **time.Time
}

// Update aplica la mutación solo si actingVetID es el autor. El chequeo vive
// dentro del repo, en la misma operación que el load.
func (s *Service) Update(ctx context.Context, id, actingVetID string, in UpdateInput) (MedicalRecord, error) {
	id = strings.TrimSpace(id)
	actingVetID = strings.TrimSpace(actingVetID)
	if id == "" || actingVetID == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	if in.Diagnosis != nil && strings.TrimSpace(*in.Diagnosis) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	if in.Treatment != nil && strings.TrimSpace(*in.Treatment) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}

	return s.repo.UpdateOwned(ctx, id, actingVetID, UpdateFields(in), s.now())
}

// Delete borra el registro solo si actingVetID es el autor.
func (s *Service) Delete(ctx context.Context, id, actingVetID string) error {
	id = strings.TrimSpace(id)
	actingVetID = strings.TrimSpace(actingVetID)
	if id == "" || actingVetID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteOwned(ctx, id, actingVetID)
}
