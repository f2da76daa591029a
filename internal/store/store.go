// Package store defines the document-store collaborator the core
// depends on. The core never owns persistence: it consumes snapshot
// feeds and issues create/update/delete commands.
package store

import (
	"context"
	"errors"

	"github.com/mentesana/agendapro/internal/model"
)

// ErrNotFound is returned by update/delete commands for unknown ids.
var ErrNotFound = errors.New("record not found")

// Unsubscribe tears down one subscription feed.
type Unsubscribe func()

// Store is the external document store. Each Subscribe delivers the
// full current snapshot of one collection, ordered by creation
// timestamp descending, first immediately and then again after every
// change. Feed errors go to onError and never tear down other feeds.
//
// Appointments are never deleted; only messages and patients are.
type Store interface {
	SubscribeAppointments(ctx context.Context, onSnapshot func([]model.Appointment), onError func(error)) (Unsubscribe, error)
	SubscribePatients(ctx context.Context, onSnapshot func([]model.Patient), onError func(error)) (Unsubscribe, error)
	SubscribeMessages(ctx context.Context, onSnapshot func([]model.ContactMessage), onError func(error)) (Unsubscribe, error)

	CreateAppointment(ctx context.Context, app model.Appointment) (string, error)
	UpdateAppointment(ctx context.Context, id string, app model.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error

	CreatePatient(ctx context.Context, p model.Patient) (string, error)
	UpdatePatient(ctx context.Context, id string, p model.Patient) error
	DeletePatient(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, m model.ContactMessage) (string, error)
	UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus) error
	DeleteMessage(ctx context.Context, id string) error
}
