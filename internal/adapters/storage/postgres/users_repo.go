package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-clinic-platform/internal/domain/owners"
	"pet-clinic-platform/internal/domain/users"
	"pet-clinic-platform/internal/domain/vets"
)

const pgUniqueViolation = "23505"

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	return mapAccountConflict(err)
}

// CreateOwnerAccount inserta User + Owner en una transacción: si cualquiera
// de los dos inserts falla no queda un par a medias.
func (r *UsersRepo) CreateOwnerAccount(ctx context.Context, u users.User, o owners.Owner) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
		return mapAccountConflict(err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO owners (id, user_id, name, email, phone, address, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.UserID, o.Name, o.Email, o.Phone, o.Address, o.Gender, o.CreatedAt); err != nil {
		return mapAccountConflict(err)
	}

	return tx.Commit()
}

// CreateVetAccount: mismo contrato que CreateOwnerAccount para el par
// User + Veterinarian.
func (r *UsersRepo) CreateVetAccount(ctx context.Context, u users.User, v vets.Veterinarian) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
		return mapAccountConflict(err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO veterinarians (id, user_id, name, phone, speciality, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.UserID, v.Name, v.Phone, v.Speciality, v.CreatedAt); err != nil {
		return mapAccountConflict(err)
	}

	return tx.Commit()
}

func scanUser(row *sql.Row) (users.User, error) {
	var u users.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

// mapAccountConflict traduce violaciones de unique a los sentinels del dominio.
func mapAccountConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "owners_name") {
			return users.ErrNameTaken
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return users.ErrEmailTaken
		}
	}
	return err
}
