package doctor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
	"github.com/WailSalutem-Health-Care/care-portal/internal/testutil"
)

const appointmentsJSON = `[
	{"id":31,"patient":{"patientId":11,"fullName":"Jane Roe"},"appointmentDate":"2026-10-20T09:30","reason":"Headache","status":"Scheduled"},
	{"id":32,"patient":{"patientId":12},"appointmentDate":"2026-10-01T10:00","reason":"Checkup","status":"Completed"},
	{"id":33,"appointmentDate":"2026-10-21T11:00","reason":"Unknown","status":"Scheduled"}
]`

type mockMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockMetrics) RecordConsultation(ctx context.Context, outcome string) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, outcome)
	m.mu.Unlock()
}

func newTestService(t *testing.T) (*Service, *testutil.FakeBackend, *testutil.MockPublisher, *mockMetrics) {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	fake.Handle(http.MethodGet, "/doctor/7", http.StatusOK, `{"doctorID":7,"fullName":"Gregory House","specialty":"Neurology"}`)
	fake.Handle(http.MethodGet, "/appointment/doctor/7", http.StatusOK, appointmentsJSON)
	fake.Handle(http.MethodGet, "/report/doctor/7", http.StatusOK, `[]`)

	pub := testutil.NewMockPublisher()
	metrics := &mockMetrics{}
	svc := NewService(backend.New(gateway.New(fake.URL())), pub, metrics)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC) }
	return svc, fake, pub, metrics
}

func TestLoad_AllSections(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	dash, err := svc.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if dash.Profile.Data == nil || dash.Profile.Data.FullName != "Gregory House" {
		t.Errorf("Unexpected profile %+v", dash.Profile)
	}
	if len(dash.Appointments.Data) != 3 {
		t.Errorf("Expected 3 appointments, got %d", len(dash.Appointments.Data))
	}
	if len(dash.Pending) != 2 {
		t.Errorf("Expected completed visits filtered out, got %d pending", len(dash.Pending))
	}
	if dash.Reports.Data == nil || dash.Reports.Error != "" {
		t.Errorf("Expected empty report list, got %+v", dash.Reports)
	}
}

func TestLoad_SectionFailuresAreIndependent(t *testing.T) {
	svc, fake, _, _ := newTestService(t)
	fake.Handle(http.MethodGet, "/report/doctor/7", http.StatusInternalServerError, `{"message":"reports down"}`)

	dash, err := svc.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if dash.Reports.Error != "reports down" {
		t.Errorf("Expected reports error, got %q", dash.Reports.Error)
	}
	if dash.Profile.Error != "" || dash.Profile.Data == nil {
		t.Error("Expected profile to load despite reports failure")
	}
	if dash.Appointments.Error != "" || len(dash.Appointments.Data) != 3 {
		t.Error("Expected appointments to load despite reports failure")
	}
}

func TestLoad_UnauthorizedFailsWholeScreen(t *testing.T) {
	svc, fake, _, _ := newTestService(t)
	fake.Handle(http.MethodGet, "/doctor/7", http.StatusUnauthorized, `{"message":"Token expired"}`)

	if _, err := svc.Load(context.Background(), 7); !gateway.IsUnauthorized(err) {
		t.Errorf("Expected unauthorized error, got %v", err)
	}
}

func TestCompleteConsultation_Success(t *testing.T) {
	svc, fake, pub, metrics := newTestService(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusOK, `"Report uploaded"`)
	fake.Handle(http.MethodPut, "/appointment/update-status/31", http.StatusOK, nil)

	result, err := svc.CompleteConsultation(context.Background(), 7, 31, shape.ReportForm{ReportType: "Lab", Description: "CBC normal"})
	if err != nil {
		t.Fatalf("CompleteConsultation failed: %v", err)
	}
	if !result.ReportFiled || !result.StatusUpdated {
		t.Errorf("Expected both steps done, got %+v", result)
	}

	var upload entity.ReportUpload
	fake.RequestsTo(http.MethodPost, "/report/upload")[0].DecodeBody(t, &upload)
	if upload.Patient.PatientID != 11 || upload.Doctor.DoctorID != 7 || upload.Date != "2026-10-16" {
		t.Errorf("Unexpected upload payload %+v", upload)
	}
	var status entity.StatusUpdate
	fake.RequestsTo(http.MethodPut, "/appointment/update-status/31")[0].DecodeBody(t, &status)
	if status.Status != entity.StatusCompleted {
		t.Errorf("Expected Completed, got %q", status.Status)
	}

	pub.AssertEventCount(t, messaging.EventConsultationCompleted, 1)
	pub.AssertEventNotPublished(t, messaging.EventConsultationStatusUpdateFailed)
	if len(metrics.outcomes) != 1 || metrics.outcomes[0] != "completed" {
		t.Errorf("Unexpected metrics %v", metrics.outcomes)
	}
}

func TestCompleteConsultation_MissingPatientSendsNothing(t *testing.T) {
	svc, fake, _, _ := newTestService(t)

	_, err := svc.CompleteConsultation(context.Background(), 7, 33, shape.ReportForm{ReportType: "Lab", Description: "x"})
	var vErr *shape.ValidationError
	if !errors.As(err, &vErr) || vErr.Reason != shape.ReasonPatientMissing {
		t.Fatalf("Expected patient missing error, got %v", err)
	}
	fake.AssertCalled(t, http.MethodPost, "/report/upload", 0)
	fake.AssertCalled(t, http.MethodPut, "/appointment/update-status/33", 0)
}

func TestCompleteConsultation_UploadFailureStops(t *testing.T) {
	svc, fake, pub, _ := newTestService(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusBadRequest, `{"message":"bad report"}`)

	result, err := svc.CompleteConsultation(context.Background(), 7, 31, shape.ReportForm{ReportType: "Lab", Description: "x"})
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepUploadReport {
		t.Fatalf("Expected upload StepError, got %v", err)
	}
	if stepErr.Partial() || IsPartial(err) {
		t.Error("Upload failure is not partial")
	}
	if result.ReportFiled {
		t.Error("Expected report not filed")
	}
	fake.AssertCalled(t, http.MethodPut, "/appointment/update-status/31", 0)
	if pub.GetEventCount() != 0 {
		t.Errorf("Expected no events, got %d", pub.GetEventCount())
	}
}

func TestCompleteConsultation_StatusFailureIsPartial(t *testing.T) {
	svc, fake, pub, metrics := newTestService(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusOK, nil)
	fake.Handle(http.MethodPut, "/appointment/update-status/31", http.StatusInternalServerError, `{"error":"db down"}`)

	result, err := svc.CompleteConsultation(context.Background(), 7, 31, shape.ReportForm{ReportType: "Lab", Description: "x"})
	if !IsPartial(err) {
		t.Fatalf("Expected partial failure, got %v", err)
	}
	if !result.ReportFiled || result.StatusUpdated || result.FailedStep != StepUpdateStatus {
		t.Errorf("Unexpected result %+v", result)
	}
	fake.AssertCalled(t, http.MethodPost, "/report/upload", 1)
	fake.AssertCalled(t, http.MethodPut, "/appointment/update-status/31", 1)

	pub.AssertEventCount(t, messaging.EventConsultationStatusUpdateFailed, 1)
	if metrics.outcomes[0] != "partial" {
		t.Errorf("Expected partial outcome, got %v", metrics.outcomes)
	}
}

func TestCompleteConsultation_NotFoundAndCompleted(t *testing.T) {
	svc, fake, _, _ := newTestService(t)
	form := shape.ReportForm{ReportType: "Lab", Description: "x"}

	if _, err := svc.CompleteConsultation(context.Background(), 7, 99, form); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("Expected ErrAppointmentNotFound, got %v", err)
	}
	if _, err := svc.CompleteConsultation(context.Background(), 7, 32, form); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("Expected ErrAlreadyCompleted, got %v", err)
	}
	fake.AssertCalled(t, http.MethodPost, "/report/upload", 0)
}
