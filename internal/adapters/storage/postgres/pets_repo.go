package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-clinic-platform/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, code, owner_id, name, species, breed, age, weight, gender, image_ref, vet_id, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.Code, p.OwnerID, p.Name, p.Species, p.Breed, p.Age, p.Weight,
		p.Gender, nullString(p.ImageRef), nullString(p.VetID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return pets.ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)
	return scanPet(row)
}

func (r *PetsRepo) GetByCode(ctx context.Context, code string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE code = $1
	`, code)
	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	query := `
		SELECT ` + petColumns + `
		FROM pets
	`
	args := make([]any, 0, 2)
	where := ""
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = fmt.Sprintf("WHERE owner_id = $%d", len(args))
	}
	if f.VetID != "" {
		args = append(args, f.VetID)
		cond := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM medical_records mr WHERE mr.pet_id = pets.id AND mr.vet_id = $%d)",
			len(args))
		if where == "" {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	query += where + " ORDER BY code ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPetRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update no toca code ni owner_id: son inmutables una vez creada la mascota.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, age = $5, weight = $6,
		    gender = $7, image_ref = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Species, p.Breed, p.Age, p.Weight, p.Gender,
		nullString(p.ImageRef), p.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) AssignVet(ctx context.Context, petID, vetID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets SET vet_id = $2, updated_at = now() WHERE id = $1
	`, petID, vetID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

// DeleteCascade borra historiales y mascota en una sola transacción.
func (r *PetsRepo) DeleteCascade(ctx context.Context, petID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM pets WHERE id = $1 FOR UPDATE
	`, petID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM medical_records WHERE pet_id = $1`, petID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, petID); err != nil {
		return err
	}

	return tx.Commit()
}

// NextCodeNumber usa la secuencia de la base: nextval serializa por sí solo,
// dos creaciones concurrentes nunca reciben el mismo número.
func (r *PetsRepo) NextCodeNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('pet_code_seq')`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row *sql.Row) (pets.Pet, error) {
	p, err := scanPetRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func scanPetRow(row rowScanner) (pets.Pet, error) {
	var (
		p        pets.Pet
		imageRef sql.NullString
		vetID    sql.NullString
	)
	err := row.Scan(&p.ID, &p.Code, &p.OwnerID, &p.Name, &p.Species, &p.Breed,
		&p.Age, &p.Weight, &p.Gender, &imageRef, &vetID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return pets.Pet{}, err
	}
	p.ImageRef = imageRef.String
	p.VetID = vetID.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
