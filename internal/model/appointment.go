package model

import "time"

type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "pendiente"
	StatusRealized AppointmentStatus = "realizado"
	StatusNoShow   AppointmentStatus = "no_asistio"
)

// Valid reports whether s is one of the three known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRealized, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a booked session. ID is assigned by the store on
// creation and is empty until persisted. Date is a date-only key
// ("YYYY-MM-DD"), Time one of the fixed slot strings ("HH:mm").
type Appointment struct {
	ID          string            `json:"id"`
	PatientName string            `json:"patientName"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Service     string            `json:"service"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
