package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mentesana/agendapro/internal/model"
	"go.uber.org/zap"
)

func sampleAppointment() model.Appointment {
	return model.Appointment{
		ID:          "a1",
		PatientName: "María González",
		Phone:       "12345678",
		Email:       "maria@example.com",
		Service:     "Psicoterapia Individual",
		Date:        "2025-03-20",
		Time:        "09:00",
	}
}

func TestWebhookPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, zap.NewNop())
	w.AppointmentCreated(context.Background(), sampleAppointment())

	if got["action"] != "agenda" {
		t.Errorf("action = %v", got["action"])
	}
	if got["appointmentId"] != "a1" {
		t.Errorf("appointmentId = %v", got["appointmentId"])
	}
	if got["service"] != "Psicoterapia Individual" || got["time"] != "09:00" {
		t.Errorf("payload = %v", got)
	}
	if _, ok := got["notes"]; ok {
		t.Error("empty notes must be omitted")
	}
}

func TestWebhookIncludesNotes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	app := sampleAppointment()
	app.Notes = "primera sesión"
	NewWebhook(srv.URL, zap.NewNop()).AppointmentCreated(context.Background(), app)

	if got["notes"] != "primera sesión" {
		t.Errorf("notes = %v", got["notes"])
	}
}

func TestWebhookSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// Neither a 5xx response nor a dead endpoint may panic or block.
	NewWebhook(srv.URL, zap.NewNop()).AppointmentCreated(context.Background(), sampleAppointment())

	srv.Close()
	NewWebhook(srv.URL, zap.NewNop()).AppointmentCreated(context.Background(), sampleAppointment())
}

func TestWebhookDisabledWithoutURL(t *testing.T) {
	// Must not attempt any request.
	NewWebhook("", zap.NewNop()).AppointmentCreated(context.Background(), sampleAppointment())
}
