package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentesana/agendapro/internal/booking"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
	"go.uber.org/zap"
)

type PatientService struct {
	store  store.Store
	logger *zap.Logger
}

func NewPatientService(st store.Store, logger *zap.Logger) *PatientService {
	return &PatientService{store: st, logger: logger}
}

func (s *PatientService) Create(ctx context.Context, f booking.PatientForm) (string, booking.FieldErrors, error) {
	errs := booking.ValidatePatient(f)
	if !errs.Valid() {
		return "", errs, nil
	}

	id, err := s.store.CreatePatient(ctx, patientFromForm(f))
	if err != nil {
		return "", nil, fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info("Patient created", zap.String("patient_id", id))
	return id, nil, nil
}

func (s *PatientService) Update(ctx context.Context, id string, f booking.PatientForm) (booking.FieldErrors, error) {
	errs := booking.ValidatePatient(f)
	if !errs.Valid() {
		return errs, nil
	}

	if err := s.store.UpdatePatient(ctx, id, patientFromForm(f)); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}

	s.logger.Info("Patient updated", zap.String("patient_id", id))
	return nil, nil
}

func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeletePatient(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	s.logger.Info("Patient deleted", zap.String("patient_id", id))
	return nil
}

// AddOutcome reports how AddFromAppointment ended. AlreadyExists is a
// soft, informational outcome, not an error.
type AddOutcome int

const (
	Added AddOutcome = iota
	AlreadyExists
)

// AddFromAppointment copies an appointment's contact data into the
// patient registry, deduplicated by case-insensitive email against the
// current patient snapshot. The synthesized note references the source
// appointment.
func (s *PatientService) AddFromAppointment(ctx context.Context, app model.Appointment, patients []model.Patient) (AddOutcome, error) {
	email := strings.ToLower(app.Email)
	for _, p := range patients {
		if strings.ToLower(p.Email) == email {
			return AlreadyExists, nil
		}
	}

	_, err := s.store.CreatePatient(ctx, patientFromAppointment(app))
	if err != nil {
		return Added, fmt.Errorf("add patient from appointment: %w", err)
	}

	s.logger.Info("Patient added from appointment",
		zap.String("appointment_id", app.ID),
		zap.String("email", app.Email))
	return Added, nil
}

// ImportResult is the partial-completion report of a calendar import.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// ImportFromCalendar walks the appointment snapshot and registers
// every patient not yet in the registry, deduplicating by
// case-insensitive email both against the registry and within the
// batch. Creates run as a sequential loop of individual commands, not
// a transaction: a mid-loop failure returns the error together with
// the counts achieved so far, and nothing is rolled back.
func (s *PatientService) ImportFromCalendar(ctx context.Context, apps []model.Appointment, patients []model.Patient) (ImportResult, error) {
	known := make(map[string]bool, len(patients))
	for _, p := range patients {
		known[strings.ToLower(p.Email)] = true
	}

	var toAdd []model.Appointment
	for _, app := range apps {
		email := strings.ToLower(app.Email)
		if email == "" || known[email] {
			continue
		}
		known[email] = true
		toAdd = append(toAdd, app)
	}

	result := ImportResult{Skipped: len(apps) - len(toAdd)}
	for _, app := range toAdd {
		if _, err := s.store.CreatePatient(ctx, patientFromAppointment(app)); err != nil {
			return result, fmt.Errorf("import patient %q: %w", app.Email, err)
		}
		result.Added++
	}

	s.logger.Info("Patients imported from calendar",
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func patientFromForm(f booking.PatientForm) model.Patient {
	return model.Patient{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		BirthDate: strings.TrimSpace(f.BirthDate),
		Notes:     strings.TrimSpace(f.Notes),
	}
}

func patientFromAppointment(app model.Appointment) model.Patient {
	p := model.Patient{
		Name:  app.PatientName,
		Email: app.Email,
		Phone: app.Phone,
	}
	if app.Service != "" {
		p.Notes = fmt.Sprintf("Cita: %s (%s)", app.Service, app.Date)
	}
	return p
}
