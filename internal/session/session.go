// Package session holds the transient state of one authenticated admin
// session: the three live snapshot feeds, the filter and view
// selection, and the derived calendar structures. The session owns no
// authoritative data; every derived view is recomputed wholesale from
// the latest snapshots.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mentesana/agendapro/internal/agenda"
	"github.com/mentesana/agendapro/internal/calendar"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/prefs"
	"github.com/mentesana/agendapro/internal/status"
	"github.com/mentesana/agendapro/internal/store"
	"go.uber.org/zap"
)

type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewList  ViewMode = "list"
)

var ErrAlreadyStarted = errors.New("session already started")

type Session struct {
	uid    string
	store  store.Store
	prefs  prefs.Store
	clock  *calendar.Clock
	logger *zap.Logger

	// Status is the per-selection transition controller. Selecting a
	// different appointment resets its confirmation and error state.
	Status *status.Controller

	mu           sync.Mutex
	started      bool
	stops        []store.Unsubscribe
	appointments []model.Appointment
	patients     []model.Patient
	messages     []model.ContactMessage
	banner       error // latest subscription fault, sticky until recovery

	filter     agenda.Filter
	viewMode   ViewMode
	viewDate   calendar.Date
	selectedID string
}

func New(uid string, st store.Store, pr prefs.Store, clock *calendar.Clock, ctrl *status.Controller, logger *zap.Logger) *Session {
	return &Session{
		uid:      uid,
		store:    st,
		prefs:    pr,
		clock:    clock,
		logger:   logger,
		Status:   ctrl,
		filter:   agenda.Filter{Status: agenda.AnyStatus},
		viewMode: ViewMonth,
		viewDate: clock.Today(),
	}
}

// Start acquires the three snapshot subscriptions and restores the
// saved dashboard preferences. The feeds live until Stop or ctx end.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	s.restorePrefs(ctx)

	onError := func(err error) {
		s.mu.Lock()
		s.banner = err
		s.mu.Unlock()
		s.logger.Error("Subscription feed fault", zap.Error(err))
	}

	stopApps, err := s.store.SubscribeAppointments(ctx, func(apps []model.Appointment) {
		s.mu.Lock()
		s.appointments = apps
		s.banner = nil
		s.mu.Unlock()
	}, onError)
	if err != nil {
		s.Stop()
		return err
	}
	s.addStop(stopApps)

	stopPatients, err := s.store.SubscribePatients(ctx, func(ps []model.Patient) {
		s.mu.Lock()
		s.patients = ps
		s.mu.Unlock()
	}, onError)
	if err != nil {
		s.Stop()
		return err
	}
	s.addStop(stopPatients)

	stopMsgs, err := s.store.SubscribeMessages(ctx, func(ms []model.ContactMessage) {
		s.mu.Lock()
		s.messages = ms
		s.mu.Unlock()
	}, onError)
	if err != nil {
		s.Stop()
		return err
	}
	s.addStop(stopMsgs)

	s.logger.Info("Admin session started", zap.String("uid", s.uid))
	return nil
}

func (s *Session) addStop(stop store.Unsubscribe) {
	s.mu.Lock()
	s.stops = append(s.stops, stop)
	s.mu.Unlock()
}

// Stop releases every acquired subscription. Safe to call more than
// once.
func (s *Session) Stop() {
	s.mu.Lock()
	stops := s.stops
	s.stops = nil
	s.started = false
	s.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

func (s *Session) restorePrefs(ctx context.Context) {
	d, err := s.prefs.Load(ctx, s.uid)
	if err != nil {
		s.logger.Warn("Failed to load dashboard prefs", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.filter.Status = d.FilterStatus
	s.filter.Search = d.SearchTerm
	s.filter.Service = d.FilterService
	if m := ViewMode(d.CalendarViewMode); m == ViewMonth || m == ViewWeek || m == ViewList {
		s.viewMode = m
	}
	s.mu.Unlock()
}

func (s *Session) savePrefs(ctx context.Context) {
	s.mu.Lock()
	d := prefs.Dashboard{
		FilterStatus:     s.filter.Status,
		SearchTerm:       s.filter.Search,
		FilterService:    s.filter.Service,
		CalendarViewMode: string(s.viewMode),
	}
	s.mu.Unlock()

	if err := s.prefs.Save(ctx, s.uid, d); err != nil {
		s.logger.Warn("Failed to save dashboard prefs", zap.Error(err))
	}
}

// --- filter and view state ---

func (s *Session) Filter() agenda.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetStatusFilter(ctx context.Context, v string) {
	s.mu.Lock()
	s.filter.Status = v
	s.mu.Unlock()
	s.savePrefs(ctx)
}

func (s *Session) SetSearch(ctx context.Context, term string) {
	s.mu.Lock()
	s.filter.Search = term
	s.mu.Unlock()
	s.savePrefs(ctx)
}

func (s *Session) SetServiceFilter(ctx context.Context, svc string) {
	s.mu.Lock()
	s.filter.Service = svc
	s.mu.Unlock()
	s.savePrefs(ctx)
}

// SetDateFilter narrows the view to one exact date key; empty clears.
// The date filter is session-only and not persisted.
func (s *Session) SetDateFilter(key string) {
	s.mu.Lock()
	s.filter.Date = key
	s.mu.Unlock()
}

// ClearFilters resets every criterion to its default.
func (s *Session) ClearFilters(ctx context.Context) {
	s.mu.Lock()
	s.filter = agenda.Filter{Status: agenda.AnyStatus}
	s.mu.Unlock()
	s.savePrefs(ctx)
}

func (s *Session) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

func (s *Session) SetViewMode(ctx context.Context, m ViewMode) {
	s.mu.Lock()
	s.viewMode = m
	s.mu.Unlock()
	s.savePrefs(ctx)
}

func (s *Session) ViewDate() calendar.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewDate
}

// SetViewDate re-centers the calendar, e.g. after clicking a cell of
// an adjacent month.
func (s *Session) SetViewDate(d calendar.Date) {
	s.mu.Lock()
	s.viewDate = d
	s.mu.Unlock()
}

func (s *Session) GoToToday() {
	today := s.clock.Today()
	s.mu.Lock()
	s.viewDate = today
	s.filter.Date = today.Key()
	s.mu.Unlock()
}

func (s *Session) GoToMonth(offset int) {
	s.mu.Lock()
	s.viewDate = calendar.ShiftMonth(s.viewDate, offset)
	s.mu.Unlock()
}

func (s *Session) GoToWeek(offset int) {
	s.mu.Lock()
	s.viewDate = calendar.ShiftWeek(s.viewDate, offset)
	s.mu.Unlock()
}

// --- selection ---

// Select switches the detail panel to another appointment (or none
// with ""), clearing any pending status confirmation and error.
func (s *Session) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.Status.Select(id)
}

// Selected resolves the selected id against the current snapshot; nil
// when nothing is selected or the record disappeared.
func (s *Session) Selected() *model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == s.selectedID {
			app := s.appointments[i]
			return &app
		}
	}
	return nil
}

// RequestStatus asks to transition the selected appointment, going
// through the confirmation gate for realized/no-show targets.
func (s *Session) RequestStatus(ctx context.Context, target model.AppointmentStatus) (status.Outcome, error) {
	app := s.Selected()
	if app == nil {
		return status.Outcome{}, store.ErrNotFound
	}
	return s.Status.Request(ctx, app.Status, target)
}

// --- derived views, recomputed from the latest snapshots ---

func (s *Session) snapshot() ([]model.Appointment, []model.ContactMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments, s.messages
}

func (s *Session) Appointments() []model.Appointment {
	apps, _ := s.snapshot()
	return apps
}

func (s *Session) Patients() []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patients
}

func (s *Session) Messages() []model.ContactMessage {
	_, msgs := s.snapshot()
	return msgs
}

func (s *Session) Filtered() []model.Appointment {
	s.mu.Lock()
	f, apps := s.filter, s.appointments
	s.mu.Unlock()
	return f.Apply(apps)
}

func (s *Session) ByDate() map[string][]model.Appointment {
	return agenda.BucketByDate(s.Filtered())
}

func (s *Session) ListGroups() []agenda.DayGroup {
	return agenda.GroupForListView(s.Filtered())
}

func (s *Session) MonthCells() []calendar.Cell {
	return calendar.MonthGrid(s.ViewDate())
}

func (s *Session) WeekCells() []calendar.Cell {
	return calendar.WeekGrid(s.ViewDate())
}

func (s *Session) Stats() agenda.Stats {
	apps, msgs := s.snapshot()
	return agenda.ComputeStats(apps, msgs, s.clock.Today().Key())
}

// LabelDate renders a list-view section header through the shared
// clock, so the list and calendar views agree on today/tomorrow.
func (s *Session) LabelDate(key string) string {
	return s.clock.LabelDate(key)
}

// Banner returns the persistent subscription fault, distinct from
// per-action errors, or nil while the feeds are healthy.
func (s *Session) Banner() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}
