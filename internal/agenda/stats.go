package agenda

import "github.com/mentesana/agendapro/internal/model"

// Stats are the dashboard headline counters.
type Stats struct {
	TotalToday  int `json:"totalToday"`
	Pending     int `json:"pending"`
	NewMessages int `json:"newMessages"`
	Completed   int `json:"completed"`
}

// ComputeStats aggregates over the full (unfiltered) snapshots.
// TotalToday counts every appointment dated todayKey regardless of
// status.
func ComputeStats(apps []model.Appointment, msgs []model.ContactMessage, todayKey string) Stats {
	var s Stats
	for _, app := range apps {
		if app.Date == todayKey {
			s.TotalToday++
		}
		switch app.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusRealized:
			s.Completed++
		}
	}
	for _, m := range msgs {
		if m.Status == model.MessageStatusNew {
			s.NewMessages++
		}
	}
	return s
}
