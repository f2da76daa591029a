package status

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mentesana/agendapro/internal/model"
	"go.uber.org/zap"
)

// Controller drives appointment status transitions for the currently
// selected appointment. All three statuses are reachable from all
// others; realized and no-show are consequential from a clinical
// record standpoint, so transitions into them pause for an explicit
// confirmation first. State is scoped to one selected appointment at
// a time.

var (
	// ErrUpdateInFlight is returned while a transition is already being
	// written. Exactly one outstanding status mutation per appointment.
	ErrUpdateInFlight = errors.New("status update already in flight")
	// ErrNoPendingConfirmation is returned by Confirm without a prior
	// NeedsConfirmation outcome.
	ErrNoPendingConfirmation = errors.New("no status change awaiting confirmation")
)

// RetryableMessage is the user-facing text shown when a status write
// is rejected by the store. The local state is left untouched and the
// same transition may be re-attempted.
const RetryableMessage = "Error al sincronizar con el servidor. Intente de nuevo."

type OutcomeKind int

const (
	Unchanged OutcomeKind = iota
	NeedsConfirmation
	Applied
)

type Outcome struct {
	Kind   OutcomeKind
	Target model.AppointmentStatus
}

// Updater issues the status update command against the store.
type Updater func(ctx context.Context, id string, s model.AppointmentStatus) error

type Controller struct {
	update Updater
	logger *zap.Logger

	mu         sync.Mutex
	selectedID string
	pending    model.AppointmentStatus // awaiting confirmation, "" if none
	inFlight   bool
	lastErr    error
}

func NewController(update Updater, logger *zap.Logger) *Controller {
	return &Controller{update: update, logger: logger}
}

// Select switches the controller to a different appointment. Any
// pending confirmation and prior error are cleared.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedID == id {
		return
	}
	c.selectedID = id
	c.pending = ""
	c.lastErr = nil
}

// Request asks to move the selected appointment from current to
// target. It either reports Unchanged, pauses for confirmation, or
// applies the update immediately.
func (c *Controller) Request(ctx context.Context, current, target model.AppointmentStatus) (Outcome, error) {
	if target == current {
		return Outcome{Kind: Unchanged, Target: target}, nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Outcome{}, ErrUpdateInFlight
	}
	if target == model.StatusRealized || target == model.StatusNoShow {
		c.pending = target
		c.mu.Unlock()
		return Outcome{Kind: NeedsConfirmation, Target: target}, nil
	}
	c.mu.Unlock()

	return c.apply(ctx, target)
}

// Confirm applies the transition that Request paused on.
func (c *Controller) Confirm(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	target := c.pending
	if target == "" {
		c.mu.Unlock()
		return Outcome{}, ErrNoPendingConfirmation
	}
	if c.inFlight {
		c.mu.Unlock()
		return Outcome{}, ErrUpdateInFlight
	}
	c.pending = ""
	c.mu.Unlock()

	return c.apply(ctx, target)
}

// Dismiss drops a pending confirmation without applying it.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.pending = ""
	c.mu.Unlock()
}

func (c *Controller) apply(ctx context.Context, target model.AppointmentStatus) (Outcome, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Outcome{}, ErrUpdateInFlight
	}
	c.inFlight = true
	c.lastErr = nil
	id := c.selectedID
	c.mu.Unlock()

	err := c.update(ctx, id, target)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.lastErr = err
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Failed to update appointment status",
			zap.String("appointment_id", id),
			zap.String("target", string(target)),
			zap.Error(err))
		return Outcome{}, fmt.Errorf("update status: %w", err)
	}

	c.logger.Info("Appointment status updated",
		zap.String("appointment_id", id),
		zap.String("status", string(target)))
	return Outcome{Kind: Applied, Target: target}, nil
}

// Pending returns the status awaiting confirmation, if any.
func (c *Controller) Pending() (model.AppointmentStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != ""
}

func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// ErrMessage returns the retryable user-facing message for the last
// failed write, or "" when the last write succeeded.
func (c *Controller) ErrMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr != nil {
		return RetryableMessage
	}
	return ""
}
