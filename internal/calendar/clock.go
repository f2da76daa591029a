package calendar

import "time"

// Clock is the single source of truth for "today" and "tomorrow" keys.
// Every caller that compares against today (filters, list labels, the
// month view highlight, booking eligibility) goes through the same
// Clock so the views can never drift apart.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a clock pinned to loc. A nil loc means time.Local.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock returns a clock frozen at t, for tests.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *Clock) Today() Date {
	return DateOf(c.now().In(c.loc))
}

func (c *Clock) Tomorrow() Date {
	return c.Today().AddDays(1)
}
