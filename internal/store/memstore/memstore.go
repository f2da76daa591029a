// Package memstore is an in-memory store.Store used in tests and
// local development. Snapshots are pushed synchronously after every
// mutation, newest record first, matching the feed contract of the
// real store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
)

type Store struct {
	mu sync.Mutex

	appointments map[string]model.Appointment
	patients     map[string]model.Patient
	messages     map[string]model.ContactMessage

	appointmentSubs map[int]func([]model.Appointment)
	patientSubs     map[int]func([]model.Patient)
	messageSubs     map[int]func([]model.ContactMessage)
	nextSub         int

	clock time.Time

	// FailNext makes the next mutation return this error, for testing
	// rollback and retry paths.
	FailNext error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		appointments:    make(map[string]model.Appointment),
		patients:        make(map[string]model.Patient),
		messages:        make(map[string]model.ContactMessage),
		appointmentSubs: make(map[int]func([]model.Appointment)),
		patientSubs:     make(map[int]func([]model.Patient)),
		messageSubs:     make(map[int]func([]model.ContactMessage)),
		clock:           time.Now(),
	}
}

// tick advances the creation clock so records get distinct, ordered
// timestamps.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) failNext() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *Store) SubscribeAppointments(_ context.Context, onSnapshot func([]model.Appointment), _ func(error)) (store.Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.appointmentSubs[id] = onSnapshot
	snap := s.appointmentSnapshot()
	s.mu.Unlock()

	onSnapshot(snap)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.appointmentSubs, id)
	}, nil
}

func (s *Store) SubscribePatients(_ context.Context, onSnapshot func([]model.Patient), _ func(error)) (store.Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.patientSubs[id] = onSnapshot
	snap := s.patientSnapshot()
	s.mu.Unlock()

	onSnapshot(snap)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.patientSubs, id)
	}, nil
}

func (s *Store) SubscribeMessages(_ context.Context, onSnapshot func([]model.ContactMessage), _ func(error)) (store.Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.messageSubs[id] = onSnapshot
	snap := s.messageSnapshot()
	s.mu.Unlock()

	onSnapshot(snap)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.messageSubs, id)
	}, nil
}

func (s *Store) CreateAppointment(_ context.Context, app model.Appointment) (string, error) {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	app.ID = uuid.NewString()
	app.CreatedAt = s.tick()
	s.appointments[app.ID] = app
	s.mu.Unlock()

	s.notifyAppointments()
	return app.ID, nil
}

func (s *Store) UpdateAppointment(_ context.Context, id string, app model.Appointment) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	cur, ok := s.appointments[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	cur.PatientName = app.PatientName
	cur.Phone = app.Phone
	cur.Email = app.Email
	cur.Service = app.Service
	cur.Date = app.Date
	cur.Time = app.Time
	cur.Notes = app.Notes
	s.appointments[id] = cur
	s.mu.Unlock()

	s.notifyAppointments()
	return nil
}

func (s *Store) UpdateAppointmentStatus(_ context.Context, id string, status model.AppointmentStatus) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	cur, ok := s.appointments[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	cur.Status = status
	s.appointments[id] = cur
	s.mu.Unlock()

	s.notifyAppointments()
	return nil
}

func (s *Store) CreatePatient(_ context.Context, p model.Patient) (string, error) {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	s.patients[p.ID] = p
	s.mu.Unlock()

	s.notifyPatients()
	return p.ID, nil
}

func (s *Store) UpdatePatient(_ context.Context, id string, p model.Patient) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	cur, ok := s.patients[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	cur.Name = p.Name
	cur.Email = p.Email
	cur.Phone = p.Phone
	cur.BirthDate = p.BirthDate
	cur.Notes = p.Notes
	cur.UpdatedAt = s.tick()
	s.patients[id] = cur
	s.mu.Unlock()

	s.notifyPatients()
	return nil
}

func (s *Store) DeletePatient(_ context.Context, id string) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, ok := s.patients[id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.patients, id)
	s.mu.Unlock()

	s.notifyPatients()
	return nil
}

func (s *Store) CreateMessage(_ context.Context, m model.ContactMessage) (string, error) {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = s.tick()
	s.messages[m.ID] = m
	s.mu.Unlock()

	s.notifyMessages()
	return m.ID, nil
}

func (s *Store) UpdateMessageStatus(_ context.Context, id string, status model.MessageStatus) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	cur, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	cur.Status = status
	s.messages[id] = cur
	s.mu.Unlock()

	s.notifyMessages()
	return nil
}

func (s *Store) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	if err := s.failNext(); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, ok := s.messages[id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.messages, id)
	s.mu.Unlock()

	s.notifyMessages()
	return nil
}

// Appointment returns a stored appointment by id, for test assertions.
func (s *Store) Appointment(id string) (model.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.appointments[id]
	return app, ok
}

// Patients returns the current patient snapshot, for test assertions.
func (s *Store) Patients() []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patientSnapshot()
}

func (s *Store) appointmentSnapshot() []model.Appointment {
	out := make([]model.Appointment, 0, len(s.appointments))
	for _, app := range s.appointments {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) patientSnapshot() []model.Patient {
	out := make([]model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) messageSnapshot() []model.ContactMessage {
	out := make([]model.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) notifyAppointments() {
	s.mu.Lock()
	snap := s.appointmentSnapshot()
	subs := make([]func([]model.Appointment), 0, len(s.appointmentSubs))
	for _, fn := range s.appointmentSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) notifyPatients() {
	s.mu.Lock()
	snap := s.patientSnapshot()
	subs := make([]func([]model.Patient), 0, len(s.patientSubs))
	for _, fn := range s.patientSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) notifyMessages() {
	s.mu.Lock()
	snap := s.messageSnapshot()
	subs := make([]func([]model.ContactMessage), 0, len(s.messageSubs))
	for _, fn := range s.messageSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}
