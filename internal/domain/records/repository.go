package records

import (
	"context"
	"time"
)

type Filter struct {
	PetID string
	VetID string
}

// UpdateFields son los campos mutables de un historial. nil = no tocar.
type UpdateFields struct {
	Diagnosis       *string
	Treatment       *string
	AppointmentDate **time.Time
}

type Repository interface {
	Create(ctx context.Context, rec MedicalRecord) error
	GetByID(ctx context.Context, id string) (MedicalRecord, error)
	List(ctx context.Context, f Filter) ([]MedicalRecord, error)

	// UpdateOwned y DeleteOwned cargan el registro, verifican que vetID sea
	// el autor y aplican el cambio, todo dentro de la misma operación lógica
	// (sin ventana read-then-write donde el registro pudiera reasignarse).
	// Fallan con ErrNotFound o ErrNotAuthor.
	UpdateOwned(ctx context.Context, id, vetID string, fields UpdateFields, updatedAt time.Time) (MedicalRecord, error)
	DeleteOwned(ctx context.Context, id, vetID string) error
}
