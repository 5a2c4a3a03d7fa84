package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-clinic-platform/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrCodeTaken    = errors.New("pet code already exists")
)

// createRetries acota los reintentos si un código asignado colisiona.
// Con una secuencia serializada no debería pasar; es la segunda línea
// de defensa sobre el unique constraint.
const createRetries = 3

type Service struct {
	repo  Repository
	alloc CodeAllocator
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, alloc CodeAllocator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		alloc: alloc,
		log:   log,
		now:   time.Now,
	}
}

type CreateInput struct {
	OwnerID  string
	Name     string
	Species  string
	Breed    string
	Age      int
	Weight   float64
	Gender   string
	ImageRef string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.OwnerID) == "" ||
		strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Age <= 0 || in.Weight <= 0 {
		return Pet{}, ErrInvalidInput
	}

	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		n, err := s.alloc.NextCodeNumber(ctx)
		if err != nil {
			return Pet{}, fmt.Errorf("allocating pet code: %w", err)
		}

		now := s.now()
		p := Pet{
			ID:       uuid.NewString(),
			Code:     FormatCode(n),
			OwnerID:  strings.TrimSpace(in.OwnerID),
			Name:     strings.TrimSpace(in.Name),
			Species:  strings.TrimSpace(in.Species),
			Breed:    strings.TrimSpace(in.Breed),
			Age:      in.Age,
			Weight:   in.Weight,
			Gender:   strings.TrimSpace(in.Gender),
			ImageRef: strings.TrimSpace(in.ImageRef),

			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.repo.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return Pet{}, err
		}

		lastErr = err
		s.log.Warn("pet code collision, retrying", map[string]any{"code": p.Code, "attempt": attempt + 1})
	}

	return Pet{}, lastErr
}

func (s *Service) GetByCode(ctx context.Context, code string) (Pet, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pet, error) {
	return s.repo.List(ctx, f)
}

type UpdateInput struct {
	Name     *string
	Species  *string
	Breed    *string
	Age      *int
	Weight   *float64
	Gender   *string
	ImageRef *string
}

// Update modifica el perfil. El código y el dueño no se tocan nunca por acá,
// y el vet tratante solo cambia vía AssignVet (al crear un historial).
func (s *Service) Update(ctx context.Context, code string, in UpdateInput) (Pet, error) {
	current, err := s.GetByCode(ctx, code)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Species != nil {
		sp := strings.TrimSpace(*in.Species)
		if sp == "" {
			return Pet{}, ErrInvalidInput
		}
		current.Species = sp
	}
	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		if *in.Age <= 0 {
			return Pet{}, ErrInvalidInput
		}
		current.Age = *in.Age
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return Pet{}, ErrInvalidInput
		}
		current.Weight = *in.Weight
	}
	if in.Gender != nil {
		current.Gender = strings.TrimSpace(*in.Gender)
	}
	if in.ImageRef != nil {
		current.ImageRef = strings.TrimSpace(*in.ImageRef)
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

// DeleteByCode resuelve código → id y borra mascota + historiales como unidad
// atómica. Un lector concurrente ve el estado previo o el posterior, nunca
// una mascota sin historiales (ni al revés).
func (s *Service) DeleteByCode(ctx context.Context, code string) error {
	p, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, p.ID); err != nil {
		return err
	}
	s.log.Info("pet deleted with medical history", map[string]any{"pet_id": p.ID, "code": p.Code})
	return nil
}

// AssignVet marca al vet como tratante actual de la mascota.
func (s *Service) AssignVet(ctx context.Context, petID, vetID string) error {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(vetID) == "" {
		return ErrInvalidInput
	}
	return s.repo.AssignVet(ctx, petID, vetID)
}
