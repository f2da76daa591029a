package booking

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldErrors maps a field name to its user-facing error message.
// Empty map means the form may be submitted.
type FieldErrors map[string]string

func (e FieldErrors) Valid() bool { return len(e) == 0 }

var (
	// Public-facing forms defend against junk input more aggressively
	// than the admin form, so the two keep separate rules on purpose.
	strictEmailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	looseEmailRx  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// PublicName is the booking-form name rule: 3..50 chars, letters,
// accents and spaces only.
func PublicName(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "El nombre es obligatorio."
	case len([]rune(v)) < 3:
		return "El nombre debe tener al menos 3 caracteres."
	case len([]rune(v)) > 50:
		return "El nombre es demasiado largo (máx 50)."
	case !lettersOnly(v):
		return "El nombre solo debe contener letras."
	}
	return ""
}

// AdminName is the admin-form name rule: non-empty, at least 3 chars.
func AdminName(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "El nombre es obligatorio."
	case len([]rune(v)) < 3:
		return "Al menos 3 caracteres."
	}
	return ""
}

func patientName(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "El nombre es obligatorio."
	case len([]rune(v)) < 2:
		return "Al menos 2 caracteres."
	}
	return ""
}

// Email is the per-field email rule. The public forms use the strict
// pattern, the admin and patient forms the loose one.
func Email(v string, strict bool) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "El correo es obligatorio."
	}
	rx := looseEmailRx
	if strict {
		rx = strictEmailRx
	}
	if !rx.MatchString(v) {
		return "Correo inválido."
	}
	return ""
}

// Phone is the per-field phone rule: at least 8 digits, and on capped
// (public) forms at most 15.
func Phone(v string, capped bool) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "El teléfono es obligatorio."
	}
	d := digitCount(v)
	if d < 8 {
		return "Al menos 8 dígitos."
	}
	if capped && d > 15 {
		return "El teléfono es demasiado largo."
	}
	return ""
}

// AppointmentForm carries the fields of a booking submission, public
// or admin.
type AppointmentForm struct {
	PatientName string
	Phone       string
	Email       string
	Service     string
	Date        string
	Time        string
	Notes       string
}

// ValidatePublic applies the public booking rules. The date
// eligibility rule (DateDisabled) is enforced by the booking calendar,
// not re-checked here.
func ValidatePublic(f AppointmentForm) FieldErrors {
	errs := FieldErrors{}
	setIf(errs, "patientName", PublicName(f.PatientName))
	setIf(errs, "email", Email(f.Email, true))
	setIf(errs, "phone", Phone(f.Phone, true))
	if strings.TrimSpace(f.Service) == "" {
		errs["service"] = "Debes seleccionar un servicio."
	} else if !ValidService(f.Service) {
		errs["service"] = "Servicio desconocido."
	}
	setIf(errs, "date", required(f.Date, "Selecciona una fecha."))
	if f.Time == "" {
		errs["time"] = "Selecciona una hora."
	} else if !ValidSlot(f.Time) {
		errs["time"] = "Hora fuera del horario disponible."
	}
	return errs
}

// ValidateAdmin applies the looser admin rules. Any date passes; the
// asymmetry with the public flow is intentional.
func ValidateAdmin(f AppointmentForm) FieldErrors {
	errs := FieldErrors{}
	setIf(errs, "patientName", AdminName(f.PatientName))
	setIf(errs, "email", Email(f.Email, false))
	setIf(errs, "phone", Phone(f.Phone, false))
	if strings.TrimSpace(f.Service) == "" {
		errs["service"] = "Selecciona un servicio."
	} else if !ValidService(f.Service) {
		errs["service"] = "Servicio desconocido."
	}
	setIf(errs, "date", required(f.Date, "Selecciona una fecha."))
	if f.Time == "" {
		errs["time"] = "Selecciona una hora."
	} else if !ValidSlot(f.Time) {
		errs["time"] = "Hora fuera del horario disponible."
	}
	return errs
}

// PatientForm carries the patient registry form fields.
type PatientForm struct {
	Name      string
	Email     string
	Phone     string
	BirthDate string
	Notes     string
}

func ValidatePatient(f PatientForm) FieldErrors {
	errs := FieldErrors{}
	setIf(errs, "name", patientName(f.Name))
	setIf(errs, "email", Email(f.Email, false))
	setIf(errs, "phone", Phone(f.Phone, false))
	return errs
}

// ContactForm carries the public contact form fields.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

func ValidateContact(f ContactForm) FieldErrors {
	errs := FieldErrors{}
	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs["name"] = "El nombre es obligatorio."
	case len([]rune(name)) < 3:
		errs["name"] = "El nombre es muy corto."
	case len([]rune(name)) > 50:
		errs["name"] = "El nombre es demasiado largo."
	}
	setIf(errs, "email", Email(f.Email, true))
	msg := strings.TrimSpace(f.Message)
	switch {
	case msg == "":
		errs["message"] = "El mensaje no puede estar vacío."
	case len([]rune(msg)) < 15:
		errs["message"] = "El mensaje es muy corto, cuéntanos un poco más (mín. 15 carac.)."
	case len([]rune(msg)) > 1000:
		errs["message"] = "El mensaje no puede exceder los 1000 caracteres."
	}
	return errs
}

func setIf(errs FieldErrors, field, msg string) {
	if msg != "" {
		errs[field] = msg
	}
}

func required(v, msg string) string {
	if strings.TrimSpace(v) == "" {
		return msg
	}
	return ""
}
