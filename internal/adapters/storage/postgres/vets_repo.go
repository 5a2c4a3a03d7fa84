package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-clinic-platform/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

const vetColumns = `id, user_id, name, phone, speciality, created_at`

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+vetColumns+`
		FROM veterinarians
		WHERE id = $1
	`, id)
	return scanVet(row)
}

func (r *VetsRepo) GetByUserID(ctx context.Context, userID string) (vets.Veterinarian, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+vetColumns+`
		FROM veterinarians
		WHERE user_id = $1
	`, userID)
	return scanVet(row)
}

func (r *VetsRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+vetColumns+`
		FROM veterinarians
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vets.Veterinarian, 0)
	for rows.Next() {
		var v vets.Veterinarian
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &v.Phone, &v.Speciality, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Veterinarian) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE veterinarians
		SET name = $2, phone = $3, speciality = $4
		WHERE id = $1
	`, v.ID, v.Name, v.Phone, v.Speciality)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return vets.ErrNotFound
	}
	return nil
}

// DeleteCascade borra perfil y cuenta en una transacción. Las mascotas
// quedan con vet_id en NULL (explícito acá, y además respaldado por el FK
// ON DELETE SET NULL); los historiales conservan su vet autor.
func (r *VetsRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM veterinarians WHERE id = $1 FOR UPDATE
	`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vets.ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pets SET vet_id = NULL WHERE vet_id = $1
	`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM veterinarians WHERE id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func scanVet(row *sql.Row) (vets.Veterinarian, error) {
	var v vets.Veterinarian
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &v.Phone, &v.Speciality, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vets.Veterinarian{}, vets.ErrNotFound
		}
		return vets.Veterinarian{}, err
	}
	return v, nil
}
