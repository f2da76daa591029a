package booking

// FixedTimes is the complete slot catalog. Every appointment time in
// the system is one of these zero-padded "HH:mm" strings; arbitrary
// times are never accepted.
var FixedTimes = []string{"09:00", "10:15", "11:30", "15:00", "16:15", "17:30", "18:45"}

// Services is the fixed service catalog offered by the clinic.
var Services = []string{
	"Psicoterapia Individual",
	"Terapia de Pareja",
	"Evaluación Clínica",
	"Acompañamiento Duelo",
}

func ValidSlot(t string) bool {
	for _, ft := range FixedTimes {
		if ft == t {
			return true
		}
	}
	return false
}

func ValidService(s string) bool {
	for _, sv := range Services {
		if sv == s {
			return true
		}
	}
	return false
}
