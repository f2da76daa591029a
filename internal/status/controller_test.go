package status

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/mentesana/agendapro/internal/model"
	"go.uber.org/zap"
)

// fakeUpdater records every write and can be armed to fail or to
// block until released.
type fakeUpdater struct {
	mu      sync.Mutex
	calls   []model.AppointmentStatus
	ids     []string
	err     error
	release chan struct{} // when set, Update blocks until closed
}

func (f *fakeUpdater) Update(ctx context.Context, id string, s model.AppointmentStatus) error {
	f.mu.Lock()
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	f.ids = append(f.ids, id)
	return f.err
}

func (f *fakeUpdater) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestController(u *fakeUpdater) *Controller {
	return NewController(u.Update, zap.NewNop())
}

func TestRequestSameStatusIsUnchanged(t *testing.T) {
	u := &fakeUpdater{}
	c := newTestController(u)
	c.Select("a1")

	out, err := c.Request(context.Background(), model.StatusPending, model.StatusPending)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if out.Kind != Unchanged {
		t.Errorf("kind = %v, want Unchanged", out.Kind)
	}
	if u.count() != 0 {
		t.Errorf("store written %d times for a no-op", u.count())
	}
}

func TestRequestPendingAppliesImmediately(t *testing.T) {
	u := &fakeUpdater{}
	c := newTestController(u)
	c.Select("a1")

	out, err := c.Request(context.Background(), model.StatusRealized, model.StatusPending)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if out.Kind != Applied {
		t.Errorf("kind = %v, want Applied", out.Kind)
	}
	if u.count() != 1 || u.calls[0] != model.StatusPending {
		t.Errorf("store calls = %v, want one pending write", u.calls)
	}
	if _, ok := c.Pending(); ok {
		t.Error("no confirmation should be pending")
	}
}

func TestRequestConsequentialStatusAsksFirst(t *testing.T) {
	for _, target := range []model.AppointmentStatus{model.StatusRealized, model.StatusNoShow} {
		u := &fakeUpdater{}
		c := newTestController(u)
		c.Select("a1")

		out, err := c.Request(context.Background(), model.StatusPending, target)
		if err != nil {
			t.Fatalf("Request(%s): %v", target, err)
		}
		if out.Kind != NeedsConfirmation || out.Target != target {
			t.Errorf("Request(%s) = %+v, want NeedsConfirmation", target, out)
		}
		if u.count() != 0 {
			t.Errorf("store written before confirmation for %s", target)
		}

		out, err = c.Confirm(context.Background())
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if out.Kind != Applied || out.Target != target {
			t.Errorf("Confirm = %+v, want Applied %s", out, target)
		}
		if u.count() != 1 {
			t.Errorf("store written %d times, want exactly 1", u.count())
		}
		if _, ok := c.Pending(); ok {
			t.Error("confirmation still pending after Confirm")
		}
	}
}

func TestConfirmWithoutPending(t *testing.T) {
	c := newTestController(&fakeUpdater{})
	c.Select("a1")

	if _, err := c.Confirm(context.Background()); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Errorf("Confirm: %v, want ErrNoPendingConfirmation", err)
	}
}

func TestDismissDropsPending(t *testing.T) {
	u := &fakeUpdater{}
	c := newTestController(u)
	c.Select("a1")

	if _, err := c.Request(context.Background(), model.StatusPending, model.StatusNoShow); err != nil {
		t.Fatalf("Request: %v", err)
	}
	c.Dismiss()

	if _, ok := c.Pending(); ok {
		t.Error("Dismiss left the confirmation pending")
	}
	if _, err := c.Confirm(context.Background()); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Errorf("Confirm after Dismiss: %v, want ErrNoPendingConfirmation", err)
	}
	if u.count() != 0 {
		t.Error("Dismiss must not write to the store")
	}
}

func TestSelectResetsPendingAndError(t *testing.T) {
	u := &fakeUpdater{err: errors.New("boom")}
	c := newTestController(u)
	c.Select("a1")

	if _, err := c.Request(context.Background(), model.StatusRealized, model.StatusPending); err == nil {
		t.Fatal("Request should surface the store error")
	}
	if c.ErrMessage() != RetryableMessage {
		t.Errorf("ErrMessage = %q, want retryable message", c.ErrMessage())
	}
	if _, err := c.Request(context.Background(), model.StatusPending, model.StatusNoShow); err != nil {
		t.Fatalf("Request: %v", err)
	}

	c.Select("a2")

	if _, ok := c.Pending(); ok {
		t.Error("Select kept the previous appointment's pending confirmation")
	}
	if c.ErrMessage() != "" {
		t.Error("Select kept the previous appointment's error")
	}
}

func TestFailedWriteIsRetryable(t *testing.T) {
	u := &fakeUpdater{err: errors.New("unavailable")}
	c := newTestController(u)
	c.Select("a1")

	if _, err := c.Request(context.Background(), model.StatusNoShow, model.StatusPending); err == nil {
		t.Fatal("Request should fail when the store rejects the write")
	}
	if c.ErrMessage() != RetryableMessage {
		t.Errorf("ErrMessage = %q, want %q", c.ErrMessage(), RetryableMessage)
	}
	if c.InFlight() {
		t.Error("in-flight flag stuck after a failed write")
	}

	// The same transition succeeds once the store recovers.
	u.mu.Lock()
	u.err = nil
	u.mu.Unlock()

	out, err := c.Request(context.Background(), model.StatusNoShow, model.StatusPending)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if out.Kind != Applied {
		t.Errorf("retry kind = %v, want Applied", out.Kind)
	}
	if c.ErrMessage() != "" {
		t.Error("error message survived a successful retry")
	}
}

func TestSecondRequestWhileWriteInFlight(t *testing.T) {
	u := &fakeUpdater{release: make(chan struct{})}
	c := newTestController(u)
	c.Select("a1")

	done := make(chan error, 1)
	go func() {
		_, err := c.Request(context.Background(), model.StatusRealized, model.StatusPending)
		done <- err
	}()

	for !c.InFlight() {
		runtime.Gosched()
	}

	if _, err := c.Request(context.Background(), model.StatusPending, model.StatusPending); err != nil {
		t.Errorf("no-op request during a write: %v", err)
	}
	if _, err := c.Request(context.Background(), model.StatusNoShow, model.StatusPending); !errors.Is(err, ErrUpdateInFlight) {
		t.Errorf("concurrent write: %v, want ErrUpdateInFlight", err)
	}

	close(u.release)
	if err := <-done; err != nil {
		t.Fatalf("first write: %v", err)
	}
	if u.count() != 1 {
		t.Errorf("store written %d times, want 1", u.count())
	}
}
