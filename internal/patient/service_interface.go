package patient

import (
	"context"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

// Backend is the slice of the REST API the patient screen uses.
type Backend interface {
	GetPatient(ctx context.Context, id entity.ID) (*entity.Patient, error)
	PatientAppointments(ctx context.Context, patientID entity.ID) ([]entity.Appointment, error)
	PatientReports(ctx context.Context, patientID entity.ID) ([]entity.Report, error)
	ListDoctors(ctx context.Context) ([]entity.Doctor, error)
	BookAppointment(ctx context.Context, booking entity.AppointmentBooking) error
}

// MetricsRecorder interface for recording booking outcomes
type MetricsRecorder interface {
	RecordBooking(ctx context.Context, outcome string)
}
