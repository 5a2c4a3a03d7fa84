package vets

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Veterinarian, error)
	GetByUserID(ctx context.Context, userID string) (Veterinarian, error)
	List(ctx context.Context) ([]Veterinarian, error)
	Update(ctx context.Context, v Veterinarian) error

	// DeleteCascade borra el perfil y su cuenta en una transacción.
	// Las mascotas que lo tenían como vet tratante quedan con vet en null;
	// los historiales conservan el vet autor histórico.
	DeleteCascade(ctx context.Context, id string) error
}
