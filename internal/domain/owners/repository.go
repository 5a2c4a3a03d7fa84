package owners

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Owner, error)
	GetByUserID(ctx context.Context, userID string) (Owner, error)
	GetByName(ctx context.Context, name string) (Owner, error)
	List(ctx context.Context) ([]Owner, error)
	Update(ctx context.Context, o Owner) error

	// DeleteCascade borra el owner junto con sus mascotas, los historiales de
	// esas mascotas y su cuenta de usuario, en una sola transacción.
	DeleteCascade(ctx context.Context, id string) error
}
