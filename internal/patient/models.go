package patient

import (
	"fmt"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

// DoctorOption is one entry of the booking form's doctor select. Value is
// what the form sends back as doctorId.
type DoctorOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Dashboard is the patient-dashboard screen.
type Dashboard struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	ReloadError  string               `json:"reloadError,omitempty"`
	Profile      *entity.Patient      `json:"profile"`
	Appointments []entity.Appointment `json:"appointments"`
	Reports      []entity.Report      `json:"reports"`
	Doctors      []entity.Doctor      `json:"doctors"`
	DoctorSelect []DoctorOption       `json:"doctorSelect"`
}

func doctorOptions(doctors []entity.Doctor) []DoctorOption {
	out := make([]DoctorOption, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, DoctorOption{
			Value: d.DoctorID.String(),
			Label: fmt.Sprintf("%s (%s)", d.FullName, d.Specialty),
		})
	}
	return out
}

// DoctorName is the doctor column of the appointment history.
func DoctorName(a entity.Appointment) string {
	if a.Doctor != nil && a.Doctor.FullName != "" {
		return "Dr. " + a.Doctor.FullName
	}
	return "Doctor Assigned"
}
