package agenda

import (
	"sort"

	"github.com/mentesana/agendapro/internal/model"
)

// BucketByDate groups apps by date key, each bucket sorted by time
// ascending. Lexicographic order on the "HH:mm" slot strings is valid
// because the slot catalog is zero-padded.
func BucketByDate(apps []model.Appointment) map[string][]model.Appointment {
	buckets := make(map[string][]model.Appointment)
	for _, app := range apps {
		buckets[app.Date] = append(buckets[app.Date], app)
	}
	for key := range buckets {
		b := buckets[key]
		sort.SliceStable(b, func(i, j int) bool { return b[i].Time < b[j].Time })
	}
	return buckets
}

// DayGroup is one list-view section: a date key and its appointments
// sorted by time.
type DayGroup struct {
	Date         string
	Appointments []model.Appointment
}

// GroupForListView sorts apps by (date, time) and groups them into
// day sections ordered by date key ascending.
func GroupForListView(apps []model.Appointment) []DayGroup {
	sorted := make([]model.Appointment, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})

	var groups []DayGroup
	for _, app := range sorted {
		if n := len(groups); n == 0 || groups[n-1].Date != app.Date {
			groups = append(groups, DayGroup{Date: app.Date})
		}
		last := &groups[len(groups)-1]
		last.Appointments = append(last.Appointments, app)
	}
	return groups
}
