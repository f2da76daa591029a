// Package prefs persists per-admin dashboard preferences: the saved
// filter values and calendar view mode survive across sessions.
package prefs

import "context"

// Dashboard mirrors the persisted preference blob.
type Dashboard struct {
	FilterStatus     string `json:"filterStatus"`
	SearchTerm       string `json:"searchTerm"`
	FilterService    string `json:"filterService"`
	CalendarViewMode string `json:"calendarViewMode"`
}

// Default is the state of a dashboard never touched before.
func Default() Dashboard {
	return Dashboard{FilterStatus: "all", CalendarViewMode: "month"}
}

// Store loads and saves one admin's dashboard preferences. Load
// returns Default() when nothing was saved yet. Failures here are
// never fatal to the session.
type Store interface {
	Load(ctx context.Context, uid string) (Dashboard, error)
	Save(ctx context.Context, uid string, d Dashboard) error
}

// Memory is an in-process Store for tests and setups without Redis.
type Memory struct {
	data map[string]Dashboard
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]Dashboard)}
}

func (m *Memory) Load(_ context.Context, uid string) (Dashboard, error) {
	if d, ok := m.data[uid]; ok {
		return d, nil
	}
	return Default(), nil
}

func (m *Memory) Save(_ context.Context, uid string, d Dashboard) error {
	m.data[uid] = d
	return nil
}
