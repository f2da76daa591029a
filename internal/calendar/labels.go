package calendar

import "time"

// Display names used by the admin calendar, Monday-first.
var (
	MonthNames = []string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	WeekdayShort = []string{"LUN", "MAR", "MIÉ", "JUE", "VIE", "SÁB", "DOM"}
)

// MonthName returns the Spanish name of m.
func MonthName(m time.Month) string {
	return MonthNames[int(m)-1]
}

// WeekdayLabel returns the Monday-first short weekday label for d.
func WeekdayLabel(d Date) string {
	return WeekdayShort[mondayIndex(d.Weekday())]
}

// LabelDate renders a date key for the list view: today and tomorrow
// get a relative prefix, anything else is the raw key.
func (c *Clock) LabelDate(key string) string {
	switch key {
	case c.Today().Key():
		return "Hoy · " + key
	case c.Tomorrow().Key():
		return "Mañana · " + key
	}
	return key
}
