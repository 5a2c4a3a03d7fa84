package users

import (
	"context"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/vets"
)

// Repository persiste cuentas. Las dos operaciones compuestas son atómicas:
// si falla cualquier paso no queda un par User/perfil a medias.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)

	// Create inserta una cuenta suelta (seed de admin).
	// Falla con ErrEmailTaken si el email ya existe.
	Create(ctx context.Context, u User) error

	// CreateOwnerAccount crea User + Owner en una transacción.
	// Falla con ErrEmailTaken o ErrNameTaken según el duplicado.
	CreateOwnerAccount(ctx context.Context, u User, o owners.Owner) error

	// CreateVetAccount crea User + Veterinarian en una transacción.
	CreateVetAccount(ctx context.Context, u User, v vets.Veterinarian) error
}
