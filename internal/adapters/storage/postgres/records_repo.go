package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-clinic-platform/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

const recordColumns = `id, pet_id, vet_id, diagnosis, treatment, appointment_date, created_at, updated_at`

func (r *RecordsRepo) Create(ctx context.Context, rec records.MedicalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.PetID, rec.VetID, rec.Diagnosis, rec.Treatment,
		nullTime(rec.AppointmentDate), rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.MedicalRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM medical_records
		WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return records.MedicalRecord{}, records.ErrNotFound
		}
		return records.MedicalRecord{}, err
	}
	return rec, nil
}

func (r *RecordsRepo) List(ctx context.Context, f records.Filter) ([]records.MedicalRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM medical_records
	`
	args := make([]any, 0, 2)
	where := ""
	if f.PetID != "" {
		args = append(args, f.PetID)
		where = fmt.Sprintf("WHERE pet_id = $%d", len(args))
	}
	if f.VetID != "" {
		args = append(args, f.VetID)
		cond := fmt.Sprintf("vet_id = $%d", len(args))
		if where == "" {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	// Más reciente primero, por fecha de atención si la tiene.
	query += where + " ORDER BY COALESCE(appointment_date, created_at) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateOwned verifica autoría y aplica el cambio dentro de la misma
// transacción: el FOR UPDATE deja la fila bloqueada entre el chequeo y el
// UPDATE, sin ventana para reasignaciones.
func (r *RecordsRepo) UpdateOwned(ctx context.Context, id, vetID string, fields records.UpdateFields, updatedAt time.Time) (records.MedicalRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return records.MedicalRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rec, err := lockRecord(ctx, tx, id, vetID)
	if err != nil {
		return records.MedicalRecord{}, err
	}

	if fields.Diagnosis != nil {
		rec.Diagnosis = *fields.Diagnosis
	}
	if fields.Treatment != nil {
		rec.Treatment = *fields.Treatment
	}
	if fields.AppointmentDate != nil {
		rec.AppointmentDate = *fields.AppointmentDate
	}
	rec.UpdatedAt = updatedAt

	if _, err := tx.ExecContext(ctx, `
		UPDATE medical_records
		SET diagnosis = $2, treatment = $3, appointment_date = $4, updated_at = $5
		WHERE id = $1
	`, rec.ID, rec.Diagnosis, rec.Treatment, nullTime(rec.AppointmentDate), rec.UpdatedAt); err != nil {
		return records.MedicalRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return records.MedicalRecord{}, err
	}
	return rec, nil
}

func (r *RecordsRepo) DeleteOwned(ctx context.Context, id, vetID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := lockRecord(ctx, tx, id, vetID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// lockRecord carga la fila con FOR UPDATE y distingue "no existe" de
// "existe pero es de otro vet".
func lockRecord(ctx context.Context, tx *sql.Tx, id, vetID string) (records.MedicalRecord, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM medical_records
		WHERE id = $1
		FOR UPDATE
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return records.MedicalRecord{}, records.ErrNotFound
		}
		return records.MedicalRecord{}, err
	}
	if rec.VetID != vetID {
		return records.MedicalRecord{}, records.ErrNotAuthor
	}
	return rec, nil
}

func scanRecord(row rowScanner) (records.MedicalRecord, error) {
	var (
		rec  records.MedicalRecord
		date sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.PetID, &rec.VetID, &rec.Diagnosis,
		&rec.Treatment, &date, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return records.MedicalRecord{}, err
	}
	if date.Valid {
		t := date.Time
		rec.AppointmentDate = &t
	}
	return rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
