package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// Create inserts a new appointment and returns its assigned id.
func (r *AppointmentRepository) Create(ctx context.Context, app model.Appointment) (string, error) {
	query := `
		INSERT INTO appointments (id, patient_name, phone, email, service, date, time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	id := uuid.NewString()
	_, err := r.pool.Exec(
		ctx, query,
		id,
		app.PatientName,
		app.Phone,
		app.Email,
		app.Service,
		app.Date,
		app.Time,
		app.Status,
		app.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}

	return id, nil
}

// Update replaces the editable fields of an appointment.
func (r *AppointmentRepository) Update(ctx context.Context, id string, app model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_name = $2, phone = $3, email = $4, service = $5, date = $6, time = $7, notes = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, app.PatientName, app.Phone, app.Email, app.Service, app.Date, app.Time, app.Notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// UpdateStatus sets only the status column.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// List returns every appointment, newest first.
func (r *AppointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	query := `
		SELECT id, patient_name, phone, email, service, date, time, status, notes, created_at
		FROM appointments
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var apps []model.Appointment
	for rows.Next() {
		var app model.Appointment
		err := rows.Scan(
			&app.ID,
			&app.PatientName,
			&app.Phone,
			&app.Email,
			&app.Service,
			&app.Date,
			&app.Time,
			&app.Status,
			&app.Notes,
			&app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}
