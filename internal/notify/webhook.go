// Package notify holds the fire-and-forget side effects triggered by
// appointment creation. Every notifier here is best-effort: failures
// are logged and swallowed, and must never block or fail the booking.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mentesana/agendapro/internal/model"
	"go.uber.org/zap"
)

// Webhook posts new appointments to an external sync endpoint. An
// empty URL disables it.
type Webhook struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhook(url string, logger *zap.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// AppointmentCreated sends {action:"agenda", appointmentId, ...fields}.
// Errors are logged and dropped.
func (w *Webhook) AppointmentCreated(ctx context.Context, app model.Appointment) {
	if w.url == "" {
		return
	}

	payload := map[string]any{
		"action":        "agenda",
		"appointmentId": app.ID,
		"patientName":   app.PatientName,
		"phone":         app.Phone,
		"email":         app.Email,
		"service":       app.Service,
		"date":          app.Date,
		"time":          app.Time,
	}
	if app.Notes != "" {
		payload["notes"] = app.Notes
	}

	if err := w.post(ctx, payload); err != nil {
		w.logger.Warn("External sync failed", zap.String("appointment_id", app.ID), zap.Error(err))
	}
}

func (w *Webhook) post(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
