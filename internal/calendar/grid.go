package calendar

import "time"

// Cell is one square of a rendered calendar grid. Cells outside the
// reference month stay selectable; clicking one re-centers the view.
type Cell struct {
	Date    Date
	Key     string
	InMonth bool
}

// mondayIndex remaps time.Weekday so Monday=0 .. Sunday=6.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// MonthGrid builds the month view for the month containing ref:
// Monday-first, padded with leading days of the prior month and
// trailing days of the next month to complete weeks. The result length
// is always a multiple of 7.
func MonthGrid(ref Date) []Cell {
	first := NewDate(ref.Year, ref.Month, 1)
	startOffset := mondayIndex(first.Weekday())
	totalDays := ref.DaysInMonth()

	cells := make([]Cell, 0, 42)
	for i := 0; i < startOffset; i++ {
		d := first.AddDays(i - startOffset)
		cells = append(cells, Cell{Date: d, Key: d.Key(), InMonth: false})
	}
	for day := 1; day <= totalDays; day++ {
		d := NewDate(ref.Year, ref.Month, day)
		cells = append(cells, Cell{Date: d, Key: d.Key(), InMonth: true})
	}
	if rem := len(cells) % 7; rem > 0 {
		last := cells[len(cells)-1].Date
		for i := 1; i <= 7-rem; i++ {
			d := last.AddDays(i)
			cells = append(cells, Cell{Date: d, Key: d.Key(), InMonth: false})
		}
	}
	return cells
}

// WeekGrid builds the 7 cells of the week containing ref, starting on
// its Monday. All cells are flagged InMonth relative to ref's month.
func WeekGrid(ref Date) []Cell {
	monday := MondayOf(ref)
	cells := make([]Cell, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDays(i)
		cells = append(cells, Cell{Date: d, Key: d.Key(), InMonth: d.Month == ref.Month && d.Year == ref.Year})
	}
	return cells
}

// MondayOf returns the Monday of the week containing d. For a Sunday
// that is 6 days prior.
func MondayOf(d Date) Date {
	return d.AddDays(-mondayIndex(d.Weekday()))
}

// ShiftMonth moves ref by offset months, any sign.
func ShiftMonth(ref Date, offset int) Date {
	return ref.AddMonths(offset)
}

// ShiftWeek moves ref by offset weeks, any sign.
func ShiftWeek(ref Date, offset int) Date {
	return ref.AddDays(offset * 7)
}
