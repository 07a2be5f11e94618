package doctor

import "github.com/WailSalutem-Health-Care/care-portal/internal/entity"

// Section is one independently loaded part of the dashboard. Error is set
// when that read failed; the other sections are unaffected.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// Dashboard is the doctor-dashboard screen.
type Dashboard struct {
	Success      bool                          `json:"success"`
	Message      string                        `json:"message,omitempty"`
	Profile      Section[*entity.Doctor]       `json:"profile"`
	Appointments Section[[]entity.Appointment] `json:"appointments"`
	Pending      []entity.Appointment          `json:"pending"`
	Reports      Section[[]entity.Report]      `json:"reports"`
	Consultation *ConsultationResult           `json:"consultation,omitempty"`
}

// ConsultationResult reports how far a completion got.
type ConsultationResult struct {
	AppointmentID entity.ID `json:"appointmentId"`
	ReportFiled   bool      `json:"reportFiled"`
	StatusUpdated bool      `json:"statusUpdated"`
	FailedStep    Step      `json:"failedStep,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// pending keeps the appointments that still await a consultation.
func pending(appts []entity.Appointment) []entity.Appointment {
	out := make([]entity.Appointment, 0, len(appts))
	for _, a := range appts {
		if !a.Completed() {
			out = append(out, a)
		}
	}
	return out
}
