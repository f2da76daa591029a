package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentesana/agendapro/internal/booking"
	"github.com/mentesana/agendapro/internal/calendar"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
	"go.uber.org/zap"
)

// Notifier is a fire-and-forget side effect run after an appointment
// is created. Implementations must swallow their own failures.
type Notifier interface {
	AppointmentCreated(ctx context.Context, app model.Appointment)
}

type AppointmentService struct {
	store     store.Store
	clock     *calendar.Clock
	notifiers []Notifier
	logger    *zap.Logger
}

func NewAppointmentService(st store.Store, clock *calendar.Clock, logger *zap.Logger, notifiers ...Notifier) *AppointmentService {
	return &AppointmentService{
		store:     st,
		clock:     clock,
		notifiers: notifiers,
		logger:    logger,
	}
}

// Book handles the public booking flow: strict field validation plus
// the date eligibility rule (strictly future, no Sundays). On success
// the appointment is created as pending and the notifiers fire in the
// background without blocking the caller.
func (s *AppointmentService) Book(ctx context.Context, f booking.AppointmentForm) (string, booking.FieldErrors, error) {
	errs := booking.ValidatePublic(f)
	if errs.Valid() {
		if date, err := calendar.ParseDate(f.Date); err != nil {
			errs["date"] = "Fecha inválida."
		} else if booking.DateDisabled(date, s.clock.Today()) {
			errs["date"] = "La fecha seleccionada no está disponible."
		}
	}
	if !errs.Valid() {
		return "", errs, nil
	}

	id, err := s.create(ctx, f)
	if err != nil {
		return "", nil, err
	}
	return id, nil, nil
}

// Create is the admin creation path. It applies the looser admin
// validation and deliberately skips the date eligibility rule: admins
// may schedule any date and time.
func (s *AppointmentService) Create(ctx context.Context, f booking.AppointmentForm) (string, booking.FieldErrors, error) {
	errs := booking.ValidateAdmin(f)
	if !errs.Valid() {
		return "", errs, nil
	}

	id, err := s.create(ctx, f)
	if err != nil {
		return "", nil, err
	}
	return id, nil, nil
}

func (s *AppointmentService) create(ctx context.Context, f booking.AppointmentForm) (string, error) {
	app := model.Appointment{
		PatientName: strings.TrimSpace(f.PatientName),
		Phone:       strings.TrimSpace(f.Phone),
		Email:       strings.TrimSpace(f.Email),
		Service:     f.Service,
		Date:        f.Date,
		Time:        f.Time,
		Status:      model.StatusPending,
		Notes:       strings.TrimSpace(f.Notes),
	}

	id, err := s.store.CreateAppointment(ctx, app)
	if err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}
	app.ID = id

	s.logger.Info("Appointment created",
		zap.String("appointment_id", id),
		zap.String("service", app.Service),
		zap.String("date", app.Date),
		zap.String("time", app.Time))

	// Best effort: notifier failures are logged inside the notifiers
	// and never reach the booking flow.
	notifyCtx := context.WithoutCancel(ctx)
	for _, n := range s.notifiers {
		go n.AppointmentCreated(notifyCtx, app)
	}

	return id, nil
}

// Update edits an existing appointment through the admin form.
func (s *AppointmentService) Update(ctx context.Context, id string, f booking.AppointmentForm) (booking.FieldErrors, error) {
	errs := booking.ValidateAdmin(f)
	if !errs.Valid() {
		return errs, nil
	}

	app := model.Appointment{
		PatientName: strings.TrimSpace(f.PatientName),
		Phone:       strings.TrimSpace(f.Phone),
		Email:       strings.TrimSpace(f.Email),
		Service:     f.Service,
		Date:        f.Date,
		Time:        f.Time,
		Notes:       strings.TrimSpace(f.Notes),
	}

	if err := s.store.UpdateAppointment(ctx, id, app); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment updated", zap.String("appointment_id", id))
	return nil, nil
}

// UpdateStatus issues the single status mutation command. The
// confirmation gating lives in the status controller; this only checks
// that the target is a known status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, target model.AppointmentStatus) error {
	if !target.Valid() {
		return fmt.Errorf("unknown appointment status %q", target)
	}
	if err := s.store.UpdateAppointmentStatus(ctx, id, target); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}
