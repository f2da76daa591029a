package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
)

type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func (r *PatientRepository) Create(ctx context.Context, p model.Patient) (string, error) {
	query := `
		INSERT INTO patients (id, name, email, phone, birth_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, query, id, p.Name, p.Email, p.Phone, p.BirthDate, p.Notes)
	if err != nil {
		return "", fmt.Errorf("create patient: %w", err)
	}

	return id, nil
}

func (r *PatientRepository) Update(ctx context.Context, id string, p model.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, email = $3, phone = $4, birth_date = $5, notes = $6, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, p.Name, p.Email, p.Phone, p.BirthDate, p.Notes)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (r *PatientRepository) List(ctx context.Context) ([]model.Patient, error) {
	query := `
		SELECT id, name, email, phone, birth_date, notes, created_at, updated_at
		FROM patients
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		var p model.Patient
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Email,
			&p.Phone,
			&p.BirthDate,
			&p.Notes,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}
