package shape

import (
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

// BookingForm is the patient's booking modal. DoctorID is the value of the
// selected directory entry.
type BookingForm struct {
	DoctorID        string `json:"doctorId" validate:"required"`
	Reason          string `json:"reason" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
}

// Booking builds {patient:{patientId}, doctor:{doctorID}, appointmentDate,
// reason, status:"Scheduled"}.
func Booking(patientID entity.ID, form BookingForm) (entity.AppointmentBooking, error) {
	if patientID.IsZero() {
		return entity.AppointmentBooking{}, &ValidationError{Field: "patientId", Reason: ReasonPatientMissing}
	}
	if err := validation.Struct(form); err != nil {
		return entity.AppointmentBooking{}, err
	}
	doctorID, err := entity.ParseID(strings.TrimSpace(form.DoctorID))
	if err != nil || doctorID.IsZero() {
		return entity.AppointmentBooking{}, &ValidationError{Field: "doctorId", Reason: ReasonInvalidID}
	}
	return entity.AppointmentBooking{
		Patient:         entity.PatientRef{PatientID: patientID},
		Doctor:          entity.DoctorRef{DoctorID: doctorID},
		AppointmentDate: form.AppointmentDate,
		Reason:          form.Reason,
		Status:          entity.StatusScheduled,
	}, nil
}

// ReportForm is the doctor's consultation modal.
type ReportForm struct {
	ReportType  string `json:"reportType" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Report builds the upload payload for appt. It refuses when the appointment
// carries no nested patient id; that check runs before anything else.
func Report(appt entity.Appointment, doctorID entity.ID, form ReportForm, now time.Time) (entity.ReportUpload, error) {
	patientID, ok := appt.PatientID()
	if !ok {
		return entity.ReportUpload{}, &ValidationError{Field: "patient", Reason: ReasonPatientMissing}
	}
	if err := validation.Struct(form); err != nil {
		return entity.ReportUpload{}, err
	}
	return entity.ReportUpload{
		Patient:     entity.PatientRef{PatientID: patientID},
		Doctor:      entity.DoctorRef{DoctorID: doctorID},
		ReportType:  form.ReportType,
		Description: form.Description,
		Date:        now.Format(entity.DateLayout),
	}, nil
}

// Status builds the {status} body of PUT /appointment/update-status/{id}.
func Status(status string) entity.StatusUpdate {
	return entity.StatusUpdate{Status: status}
}
