// Package postgres implements the store collaborator on PostgreSQL.
// Snapshot subscriptions are poll-driven: each feed re-reads its
// collection on a ticker and after local mutations, and emits the full
// snapshot whenever it changed.
package postgres

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	appointments *AppointmentRepository
	patients     *PatientRepository
	messages     *MessageRepository

	interval time.Duration

	appointmentsChanged *watcher
	patientsChanged     *watcher
	messagesChanged     *watcher
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		pool:                pool,
		logger:              logger,
		appointments:        NewAppointmentRepository(pool),
		patients:            NewPatientRepository(pool),
		messages:            NewMessageRepository(pool),
		interval:            defaultPollInterval,
		appointmentsChanged: newWatcher(),
		patientsChanged:     newWatcher(),
		messagesChanged:     newWatcher(),
	}
}

func (s *Store) SubscribeAppointments(ctx context.Context, onSnapshot func([]model.Appointment), onError func(error)) (store.Unsubscribe, error) {
	return subscribe(ctx, s, "appointments", s.appointments.List, s.appointmentsChanged, onSnapshot, onError)
}

func (s *Store) SubscribePatients(ctx context.Context, onSnapshot func([]model.Patient), onError func(error)) (store.Unsubscribe, error) {
	return subscribe(ctx, s, "patients", s.patients.List, s.patientsChanged, onSnapshot, onError)
}

func (s *Store) SubscribeMessages(ctx context.Context, onSnapshot func([]model.ContactMessage), onError func(error)) (store.Unsubscribe, error) {
	return subscribe(ctx, s, "messages", s.messages.List, s.messagesChanged, onSnapshot, onError)
}

// subscribe runs one feed loop until the context ends or the caller
// unsubscribes. List failures go to onError and the loop keeps going;
// a feed fault never tears down the other feeds.
func subscribe[T any](ctx context.Context, s *Store, name string, list func(context.Context) ([]T, error), changed *watcher, onSnapshot func([]T), onError func(error)) (store.Unsubscribe, error) {
	// First snapshot is delivered synchronously so the caller starts
	// from a known state.
	snapshot, err := list(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial %s snapshot: %w", name, err)
	}
	onSnapshot(snapshot)

	stop := make(chan struct{})
	kick, removeKick := changed.add()

	go func() {
		defer removeKick()

		last := snapshot
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
			case <-kick:
			case <-stop:
				s.logger.Debug("Subscription stopped", zap.String("feed", name))
				return
			case <-ctx.Done():
				return
			}

			next, err := list(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("Snapshot poll failed", zap.String("feed", name), zap.Error(err))
				if onError != nil {
					onError(err)
				}
				continue
			}
			if reflect.DeepEqual(next, last) {
				continue
			}
			last = next
			onSnapshot(next)
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }, nil
}

func (s *Store) CreateAppointment(ctx context.Context, app model.Appointment) (string, error) {
	id, err := s.appointments.Create(ctx, app)
	if err != nil {
		return "", err
	}
	s.appointmentsChanged.notify()
	return id, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, id string, app model.Appointment) error {
	if err := s.appointments.Update(ctx, id, app); err != nil {
		return err
	}
	s.appointmentsChanged.notify()
	return nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.appointmentsChanged.notify()
	return nil
}

func (s *Store) CreatePatient(ctx context.Context, p model.Patient) (string, error) {
	id, err := s.patients.Create(ctx, p)
	if err != nil {
		return "", err
	}
	s.patientsChanged.notify()
	return id, nil
}

func (s *Store) UpdatePatient(ctx context.Context, id string, p model.Patient) error {
	if err := s.patients.Update(ctx, id, p); err != nil {
		return err
	}
	s.patientsChanged.notify()
	return nil
}

func (s *Store) DeletePatient(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.patientsChanged.notify()
	return nil
}

func (s *Store) CreateMessage(ctx context.Context, m model.ContactMessage) (string, error) {
	id, err := s.messages.Create(ctx, m)
	if err != nil {
		return "", err
	}
	s.messagesChanged.notify()
	return id, nil
}

func (s *Store) UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus) error {
	if err := s.messages.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.messagesChanged.notify()
	return nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.messagesChanged.notify()
	return nil
}

// watcher fans a change signal out to any number of feed loops so a
// local mutation shows up without waiting for the next tick.
type watcher struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func newWatcher() *watcher {
	return &watcher{subs: make(map[int]chan struct{})}
}

func (w *watcher) add() (<-chan struct{}, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.next
	w.next++
	ch := make(chan struct{}, 1)
	w.subs[id] = ch
	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

func (w *watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
