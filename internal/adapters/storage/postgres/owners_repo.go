package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-clinic-platform/internal/domain/owners"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerColumns = `id, user_id, name, email, phone, address, gender, created_at`

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE id = $1
	`, id)
	return scanOwner(row)
}

func (r *OwnersRepo) GetByUserID(ctx context.Context, userID string) (owners.Owner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE user_id = $1
	`, userID)
	return scanOwner(row)
}

func (r *OwnersRepo) GetByName(ctx context.Context, name string) (owners.Owner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE name = $1
	`, name)
	return scanOwner(row)
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		var o owners.Owner
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Email, &o.Phone, &o.Address, &o.Gender, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE owners
		SET name = $2, email = $3, phone = $4, address = $5, gender = $6
		WHERE id = $1
	`, o.ID, o.Name, o.Email, o.Phone, o.Address, o.Gender)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "name") {
			return owners.ErrNameTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

// DeleteCascade borra owner, sus mascotas, los historiales de esas mascotas
// y la cuenta vinculada, en una sola transacción. Los FKs ON DELETE CASCADE
// respaldan el mismo resultado; los deletes explícitos fijan el orden
// (historiales antes que mascotas, mascotas antes que el owner).
func (r *OwnersRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM owners WHERE id = $1 FOR UPDATE
	`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return owners.ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM medical_records
		WHERE pet_id IN (SELECT id FROM pets WHERE owner_id = $1)
	`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE owner_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func scanOwner(row *sql.Row) (owners.Owner, error) {
	var o owners.Owner
	if err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.Email, &o.Phone, &o.Address, &o.Gender, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	return o, nil
}
