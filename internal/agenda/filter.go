package agenda

import (
	"strings"

	"github.com/mentesana/agendapro/internal/model"
)

// AnyStatus disables status filtering.
const AnyStatus = "all"

// Filter is the fully enumerated set of criteria for the admin
// calendar. Zero values deactivate the corresponding criterion, except
// Status where the explicit AnyStatus marker is also accepted.
type Filter struct {
	Status  string // AnyStatus, "" or a model.AppointmentStatus value
	Search  string // case-insensitive substring over name/email/phone/service
	Service string // exact service name
	Date    string // exact date key
}

// Matches reports whether app passes every active criterion.
func (f Filter) Matches(app model.Appointment) bool {
	if f.Status != "" && f.Status != AnyStatus && string(app.Status) != f.Status {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		ok := strings.Contains(strings.ToLower(app.PatientName), term) ||
			strings.Contains(strings.ToLower(app.Email), term) ||
			strings.Contains(app.Phone, term) ||
			strings.Contains(strings.ToLower(app.Service), term)
		if !ok {
			return false
		}
	}
	if f.Service != "" && app.Service != f.Service {
		return false
	}
	if f.Date != "" && app.Date != f.Date {
		return false
	}
	return true
}

// Apply returns the appointments matching f, preserving input order.
func (f Filter) Apply(apps []model.Appointment) []model.Appointment {
	out := make([]model.Appointment, 0, len(apps))
	for _, app := range apps {
		if f.Matches(app) {
			out = append(out, app)
		}
	}
	return out
}
