package agenda

import (
	"reflect"
	"testing"

	"github.com/mentesana/agendapro/internal/model"
)

func sampleAppointments() []model.Appointment {
	return []model.Appointment{
		{ID: "a1", PatientName: "María González", Email: "maria@example.com", Phone: "+56 9 1234 5678", Service: "Psicoterapia Individual", Date: "2025-03-10", Time: "09:00", Status: model.StatusPending},
		{ID: "a2", PatientName: "Pedro Soto", Email: "pedro@example.com", Phone: "987654321", Service: "Terapia de Pareja", Date: "2025-03-10", Time: "15:00", Status: model.StatusRealized},
		{ID: "a3", PatientName: "Ana Rojas", Email: "ana.rojas@example.com", Phone: "11223344", Service: "Psicoterapia Individual", Date: "2025-03-11", Time: "10:15", Status: model.StatusNoShow},
		{ID: "a4", PatientName: "Carla Muñoz", Email: "carla@example.com", Phone: "55667788", Service: "Evaluación Clínica", Date: "2025-03-12", Time: "09:00", Status: model.StatusPending},
	}
}

func ids(apps []model.Appointment) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.ID
	}
	return out
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	apps := sampleAppointments()
	for _, f := range []Filter{{}, {Status: AnyStatus}} {
		got := f.Apply(apps)
		if !reflect.DeepEqual(ids(got), ids(apps)) {
			t.Errorf("Filter %+v changed the set: %v", f, ids(got))
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	apps := sampleAppointments()
	f := Filter{Status: string(model.StatusPending), Search: "a", Service: ""}
	once := f.Apply(apps)
	twice := f.Apply(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("applying the same filter twice changed the result")
	}
}

func TestFilterByStatus(t *testing.T) {
	f := Filter{Status: string(model.StatusPending)}
	got := ids(f.Apply(sampleAppointments()))
	want := []string{"a1", "a4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("status filter = %v, want %v", got, want)
	}
}

func TestFilterSearch(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"maría", []string{"a1"}},          // name, case-insensitive
		{"PEDRO@", []string{"a2"}},         // email
		{"1122", []string{"a3"}},           // phone substring
		{"psicoterapia", []string{"a1", "a3"}}, // service
		{"  ", []string{"a1", "a2", "a3", "a4"}}, // whitespace-only is inactive
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		f := Filter{Search: tt.term}
		got := ids(f.Apply(sampleAppointments()))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("search %q = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	// All active criteria must match at once.
	f := Filter{Status: string(model.StatusPending), Service: "Psicoterapia Individual", Date: "2025-03-10"}
	got := ids(f.Apply(sampleAppointments()))
	if !reflect.DeepEqual(got, []string{"a1"}) {
		t.Errorf("conjunction = %v, want [a1]", got)
	}

	f.Date = "2025-03-11" // a3 matches service but not status
	if got := f.Apply(sampleAppointments()); len(got) != 0 {
		t.Errorf("conjunction = %v, want empty", ids(got))
	}
}

func TestBucketByDate(t *testing.T) {
	apps := sampleAppointments()
	buckets := BucketByDate(apps)

	total := 0
	for _, b := range buckets {
		total += len(b)
		for i := 1; i < len(b); i++ {
			if b[i-1].Time > b[i].Time {
				t.Errorf("bucket %s not sorted by time: %v before %v", b[i].Date, b[i-1].Time, b[i].Time)
			}
		}
	}
	if total != len(apps) {
		t.Errorf("buckets hold %d appointments, want %d", total, len(apps))
	}

	day := buckets["2025-03-10"]
	if len(day) != 2 || day[0].ID != "a1" || day[1].ID != "a2" {
		t.Errorf("2025-03-10 bucket = %v", ids(day))
	}
}

func TestGroupForListView(t *testing.T) {
	groups := GroupForListView(sampleAppointments())

	var prev string
	total := 0
	for _, g := range groups {
		if prev != "" && g.Date <= prev {
			t.Errorf("groups not in ascending date order: %s after %s", g.Date, prev)
		}
		prev = g.Date
		total += len(g.Appointments)
		for i := 1; i < len(g.Appointments); i++ {
			if g.Appointments[i-1].Time > g.Appointments[i].Time {
				t.Errorf("group %s not sorted by time", g.Date)
			}
		}
	}
	if total != 4 {
		t.Errorf("groups hold %d appointments, want 4", total)
	}
	if len(groups) != 3 {
		t.Errorf("got %d groups, want 3", len(groups))
	}
}

func TestGroupForListViewEmpty(t *testing.T) {
	if groups := GroupForListView(nil); len(groups) != 0 {
		t.Errorf("empty input produced %d groups", len(groups))
	}
}

func TestComputeStats(t *testing.T) {
	apps := sampleAppointments()
	msgs := []model.ContactMessage{
		{ID: "m1", Status: model.MessageStatusNew},
		{ID: "m2", Status: model.MessageStatusRead},
		{ID: "m3", Status: model.MessageStatusNew},
	}

	got := ComputeStats(apps, msgs, "2025-03-10")
	want := Stats{TotalToday: 2, Pending: 2, NewMessages: 2, Completed: 1}
	if got != want {
		t.Errorf("ComputeStats = %+v, want %+v", got, want)
	}

	// TotalToday counts regardless of status.
	got = ComputeStats(apps, nil, "2025-03-11")
	if got.TotalToday != 1 {
		t.Errorf("TotalToday = %d, want 1", got.TotalToday)
	}
}
