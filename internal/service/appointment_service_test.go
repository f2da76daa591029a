package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mentesana/agendapro/internal/booking"
	"github.com/mentesana/agendapro/internal/calendar"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store/memstore"
	"go.uber.org/zap"
)

// monday is the frozen "today" for these tests: Monday, March 10 2025.
var monday = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func calendarClock() *calendar.Clock {
	return calendar.NewFixedClock(monday)
}

type recordingNotifier struct {
	mu    sync.Mutex
	apps  []model.Appointment
	fired chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fired: make(chan struct{}, 8)}
}

func (n *recordingNotifier) AppointmentCreated(_ context.Context, app model.Appointment) {
	n.mu.Lock()
	n.apps = append(n.apps, app)
	n.mu.Unlock()
	n.fired <- struct{}{}
}

func (n *recordingNotifier) wait(t *testing.T) model.Appointment {
	t.Helper()
	select {
	case <-n.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier never fired")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.apps[len(n.apps)-1]
}

func bookingForm() booking.AppointmentForm {
	return booking.AppointmentForm{
		PatientName: "María González",
		Phone:       "+56 9 1234 5678",
		Email:       "maria@example.com",
		Service:     "Psicoterapia Individual",
		Date:        "2025-03-20",
		Time:        "09:00",
	}
}

func TestBookCreatesPendingAndNotifies(t *testing.T) {
	st := memstore.New()
	notifier := newRecordingNotifier()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop(), notifier)

	id, errs, err := svc.Book(context.Background(), bookingForm())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Book field errors: %v", errs)
	}

	app, ok := st.Appointment(id)
	if !ok {
		t.Fatal("appointment not stored")
	}
	if app.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", app.Status)
	}

	got := notifier.wait(t)
	if got.ID != id || got.Service != "Psicoterapia Individual" {
		t.Errorf("notifier got %+v", got)
	}
}

func TestBookRejectsIneligibleDates(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"today", "2025-03-10"},
		{"yesterday", "2025-03-09"},
		{"future sunday", "2025-03-23"},
	}
	for _, tt := range tests {
		st := memstore.New()
		svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

		f := bookingForm()
		f.Date = tt.date
		id, errs, err := svc.Book(context.Background(), f)
		if err != nil {
			t.Fatalf("%s: Book: %v", tt.name, err)
		}
		if errs["date"] == "" {
			t.Errorf("%s (%s): date accepted", tt.name, tt.date)
		}
		if id != "" {
			t.Errorf("%s: appointment created despite rejection", tt.name)
		}
	}
}

func TestBookRejectsInvalidFieldsWithoutWriting(t *testing.T) {
	st := memstore.New()
	notifier := newRecordingNotifier()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop(), notifier)

	f := bookingForm()
	f.PatientName = "Al"
	f.Email = "not-an-email"
	_, errs, err := svc.Book(context.Background(), f)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if errs["patientName"] == "" || errs["email"] == "" {
		t.Errorf("field errors = %v", errs)
	}

	select {
	case <-notifier.fired:
		t.Error("notifier fired for a rejected booking")
	default:
	}
}

func TestAdminCreateBypassesEligibility(t *testing.T) {
	st := memstore.New()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

	// Today and even a Sunday are fine on the admin path.
	for _, date := range []string{"2025-03-10", "2025-03-23"} {
		f := bookingForm()
		f.Date = date
		id, errs, err := svc.Create(context.Background(), f)
		if err != nil {
			t.Fatalf("Create(%s): %v", date, err)
		}
		if len(errs) != 0 {
			t.Fatalf("Create(%s) field errors: %v", date, errs)
		}
		if _, ok := st.Appointment(id); !ok {
			t.Errorf("Create(%s): appointment not stored", date)
		}
	}
}

func TestBookStoreFailure(t *testing.T) {
	st := memstore.New()
	st.FailNext = errors.New("unavailable")
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

	_, errs, err := svc.Book(context.Background(), bookingForm())
	if err == nil {
		t.Fatal("Book should surface the store error")
	}
	if errs != nil {
		t.Errorf("field errors on a store failure: %v", errs)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	st := memstore.New()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

	if err := svc.UpdateStatus(context.Background(), "x", "archivado"); err == nil {
		t.Error("unknown status accepted")
	}
}

func TestUpdateStatusWrites(t *testing.T) {
	st := memstore.New()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

	id, _, err := svc.Create(context.Background(), bookingForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), id, model.StatusRealized); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	app, _ := st.Appointment(id)
	if app.Status != model.StatusRealized {
		t.Errorf("status = %q, want realizado", app.Status)
	}
}

func TestUpdateTrimsAndKeepsStatus(t *testing.T) {
	st := memstore.New()
	svc := NewAppointmentService(st, calendarClock(), zap.NewNop())

	id, _, err := svc.Create(context.Background(), bookingForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), id, model.StatusRealized); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	f := bookingForm()
	f.PatientName = "  María José González  "
	f.Time = "16:15"
	if errs, err := svc.Update(context.Background(), id, f); err != nil || len(errs) != 0 {
		t.Fatalf("Update: errs=%v err=%v", errs, err)
	}

	app, _ := st.Appointment(id)
	if app.PatientName != "María José González" {
		t.Errorf("name = %q, want trimmed", app.PatientName)
	}
	if app.Time != "16:15" {
		t.Errorf("time = %q", app.Time)
	}
	// Edits never touch the status, that is a separate command.
	if app.Status != model.StatusRealized {
		t.Errorf("status = %q, edit must not reset it", app.Status)
	}
}
