package booking

import (
	"time"

	"github.com/mentesana/agendapro/internal/calendar"
)

// DateDisabled reports whether d may not be booked through the public
// flow: today or earlier (bookings must be strictly future) or a
// Sunday. Saturdays are bookable. The admin creation path does not
// apply this rule; admins may schedule any date.
func DateDisabled(d, today calendar.Date) bool {
	if !today.Before(d) {
		return true
	}
	return d.Weekday() == time.Sunday
}
