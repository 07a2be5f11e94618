package shape

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

func TestBooking_NestedIdentifiers(t *testing.T) {
	payload, err := Booking(12, BookingForm{DoctorID: "7", Reason: "Fever", AppointmentDate: "2026-10-20T09:30"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"patient":{"patientId":12},"doctor":{"doctorID":7},"appointmentDate":"2026-10-20T09:30","reason":"Fever","status":"Scheduled"}`
	if string(b) != want {
		t.Errorf("Expected %s, got %s", want, b)
	}
}

func TestBooking_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		patientID entity.ID
		form      BookingForm
		field     string
	}{
		{"no patient", 0, BookingForm{DoctorID: "7", Reason: "r", AppointmentDate: "d"}, "patientId"},
		{"doctor not numeric", 12, BookingForm{DoctorID: "seven", Reason: "r", AppointmentDate: "d"}, "doctorId"},
		{"doctor missing", 12, BookingForm{Reason: "r", AppointmentDate: "d"}, "doctorId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Booking(tt.patientID, tt.form)
			var verr *ValidationError
			var ferr validation.FieldErrors
			switch {
			case errors.As(err, &verr):
				if verr.Field != tt.field {
					t.Errorf("Expected field %s, got %s", tt.field, verr.Field)
				}
			case errors.As(err, &ferr):
				if _, ok := ferr[tt.field]; !ok {
					t.Errorf("Expected field error on %s, got %v", tt.field, ferr)
				}
			default:
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestReport_MissingPatientFailsFirst(t *testing.T) {
	appt := entity.Appointment{ID: 3, Status: entity.StatusScheduled}
	_, err := Report(appt, 7, ReportForm{}, time.Now())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if verr.Field != "patient" || verr.Reason != ReasonPatientMissing {
		t.Errorf("Unexpected error %+v", verr)
	}
}

func TestReport_Payload(t *testing.T) {
	appt := entity.Appointment{ID: 3, Patient: &entity.PatientRef{PatientID: 12}}
	now := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)

	payload, err := Report(appt, 7, ReportForm{ReportType: "Blood Test", Description: "Normal"}, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, _ := json.Marshal(payload)
	want := `{"patient":{"patientId":12},"doctor":{"doctorID":7},"reportType":"Blood Test","description":"Normal","date":"2026-10-16"}`
	if string(b) != want {
		t.Errorf("Expected %s, got %s", want, b)
	}
}

func TestStatus(t *testing.T) {
	b, _ := json.Marshal(Status(entity.StatusCompleted))
	if string(b) != `{"status":"Completed"}` {
		t.Errorf("Unexpected status payload %s", b)
	}
}
