package messaging

import (
	"time"

	"github.com/google/uuid"
)

const ServiceName = "care-portal"

// Routing keys
const (
	EventAccountRegistered              = "account.registered"
	EventAppointmentBooked              = "appointment.booked"
	EventConsultationCompleted          = "consultation.completed"
	EventConsultationStatusUpdateFailed = "consultation.status_update_failed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// AccountRegisteredEvent is published after a successful signup or an admin
// add-doctor/add-patient.
type AccountRegisteredEvent struct {
	BaseEvent
	Data AccountRegisteredData `json:"data"`
}

type AccountRegisteredData struct {
	Role      string `json:"role"`
	Email     string `json:"email"`
	CreatedBy string `json:"created_by"` // "self" or "admin"
}

type AppointmentBookedEvent struct {
	BaseEvent
	Data AppointmentBookedData `json:"data"`
}

type AppointmentBookedData struct {
	PatientID       int64  `json:"patient_id"`
	DoctorID        int64  `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
}

// ConsultationEvent covers both the completed and the partial-failure case.
type ConsultationEvent struct {
	BaseEvent
	Data ConsultationData `json:"data"`
}

type ConsultationData struct {
	AppointmentID int64  `json:"appointment_id"`
	DoctorID      int64  `json:"doctor_id"`
	PatientID     int64  `json:"patient_id"`
	ReportType    string `json:"report_type"`
	ReportFiled   bool   `json:"report_filed"`
	StatusUpdated bool   `json:"status_updated"`
	Error         string `json:"error,omitempty"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}
