package pets

import "context"

// Filter acota un listado de mascotas.
// VetID filtra por "mascotas atendidas por este vet" (tienen al menos un
// historial suyo), como usa el tablero del veterinario.
type Filter struct {
	OwnerID string
	VetID   string
}

type Repository interface {
	// Create falla con ErrCodeTaken si el código ya existe.
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	GetByCode(ctx context.Context, code string) (Pet, error)
	List(ctx context.Context, f Filter) ([]Pet, error)
	Update(ctx context.Context, p Pet) error

	// AssignVet actualiza solo el vet tratante, con lock de fila (o su
	// equivalente) para no pisar actualizaciones concurrentes.
	AssignVet(ctx context.Context, petID, vetID string) error

	// DeleteCascade borra la mascota y todos sus historiales en una sola
	// transacción: sobrevive "todo" o "nada", nunca un estado intermedio.
	DeleteCascade(ctx context.Context, petID string) error
}

// CodeAllocator entrega el siguiente número de la secuencia de códigos.
// La implementación debe serializar la asignación (secuencia de la base,
// contador atómico): dos creaciones concurrentes nunca reciben el mismo n.
type CodeAllocator interface {
	NextCodeNumber(ctx context.Context) (int64, error)
}
