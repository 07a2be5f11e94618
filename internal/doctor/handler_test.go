package doctor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
	"github.com/WailSalutem-Health-Care/care-portal/internal/testutil"
)

func setupHandler(t *testing.T) (*mux.Router, *testutil.FakeBackend) {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	fake.Handle(http.MethodGet, "/doctor/7", http.StatusOK, `{"doctorID":7,"fullName":"Gregory House"}`)
	fake.Handle(http.MethodGet, "/appointment/doctor/7", http.StatusOK, appointmentsJSON)
	fake.Handle(http.MethodGet, "/report/doctor/7", http.StatusOK, `[]`)

	client := backend.New(gateway.New(fake.URL()))
	h := NewHandler(func(ctx context.Context) Backend { return client }, nil, nil)

	r := mux.NewRouter()
	r.HandleFunc("/doctor-dashboard", h.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/doctor-dashboard/appointments/{id}/report", h.CompleteConsultation).Methods(http.MethodPost)
	return r, fake
}

func doctorRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	sess := &session.Session{Token: "tok", Role: entity.RoleDoctor, UserID: 7}
	return req.WithContext(auth.ContextWithSession(req.Context(), nil, sess))
}

func TestHandler_Dashboard(t *testing.T) {
	r, _ := setupHandler(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, doctorRequest(http.MethodGet, "/doctor-dashboard", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var dash Dashboard
	if err := json.Unmarshal(rr.Body.Bytes(), &dash); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !dash.Success || len(dash.Pending) != 2 {
		t.Errorf("Unexpected dashboard %+v", dash)
	}
}

func TestHandler_DashboardWithoutSessionRedirects(t *testing.T) {
	r, fake := setupHandler(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/doctor-dashboard", nil))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != entity.PathLogin {
		t.Errorf("Expected redirect to /login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if n := len(fake.Requests()); n != 0 {
		t.Errorf("Expected no backend calls, got %d", n)
	}
}

func TestHandler_CompleteConsultation(t *testing.T) {
	r, fake := setupHandler(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusOK, nil)
	fake.Handle(http.MethodPut, "/appointment/update-status/31", http.StatusOK, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, doctorRequest(http.MethodPost, "/doctor-dashboard/appointments/31/report",
		`{"reportType":"Lab","description":"CBC normal"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var dash Dashboard
	json.Unmarshal(rr.Body.Bytes(), &dash)
	if dash.Consultation == nil || !dash.Consultation.StatusUpdated {
		t.Errorf("Expected consultation result, got %+v", dash.Consultation)
	}
	if dash.Message != "Consultation finalized!" {
		t.Errorf("Unexpected message %q", dash.Message)
	}
	// one lookup before the flow, one re-fetch after
	fake.AssertCalled(t, http.MethodGet, "/appointment/doctor/7", 2)
	fake.AssertCalled(t, http.MethodGet, "/report/doctor/7", 1)
}

func TestHandler_CompleteConsultationPartial(t *testing.T) {
	r, fake := setupHandler(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusOK, nil)
	fake.Handle(http.MethodPut, "/appointment/update-status/31", http.StatusInternalServerError, `{"message":"db down"}`)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, doctorRequest(http.MethodPost, "/doctor-dashboard/appointments/31/report",
		`{"reportType":"Lab","description":"x"}`))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rr.Code)
	}
	var dash Dashboard
	json.Unmarshal(rr.Body.Bytes(), &dash)
	if dash.Success || dash.Consultation == nil || !dash.Consultation.ReportFiled {
		t.Errorf("Expected partial result, got %+v", dash)
	}
	if dash.Consultation.FailedStep != StepUpdateStatus {
		t.Errorf("Expected failed step %s, got %s", StepUpdateStatus, dash.Consultation.FailedStep)
	}
}

func TestHandler_CompleteConsultationUnauthorizedAfterUpload(t *testing.T) {
	r, fake := setupHandler(t)
	fake.Handle(http.MethodPost, "/report/upload", http.StatusOK, nil)
	fake.Handle(http.MethodPut, "/appointment/update-status/31", http.StatusUnauthorized, `{"message":"Token expired"}`)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, doctorRequest(http.MethodPost, "/doctor-dashboard/appointments/31/report",
		`{"reportType":"Lab","description":"x"}`))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Error    string             `json:"error"`
		Redirect string             `json:"redirect"`
		Outcome  ConsultationResult `json:"outcome"`
	}
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Error != "session_expired" || body.Redirect != "/login" {
		t.Errorf("Expected session_expired redirect, got %s", rr.Body.String())
	}
	if !body.Outcome.ReportFiled || body.Outcome.StatusUpdated || body.Outcome.FailedStep != StepUpdateStatus {
		t.Errorf("Expected filed report in outcome, got %+v", body.Outcome)
	}
	fake.AssertCalled(t, http.MethodGet, "/report/doctor/7", 0)
}

func TestHandler_CompleteConsultationErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad id", "/doctor-dashboard/appointments/abc/report", `{}`, http.StatusBadRequest},
		{"unknown appointment", "/doctor-dashboard/appointments/99/report", `{"reportType":"a","description":"b"}`, http.StatusNotFound},
		{"completed", "/doctor-dashboard/appointments/32/report", `{"reportType":"a","description":"b"}`, http.StatusConflict},
		{"patient missing", "/doctor-dashboard/appointments/33/report", `{"reportType":"a","description":"b"}`, http.StatusBadRequest},
		{"empty form", "/doctor-dashboard/appointments/31/report", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fake := setupHandler(t)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, doctorRequest(http.MethodPost, tt.path, tt.body))
			if rr.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			fake.AssertCalled(t, http.MethodPost, "/report/upload", 0)
		})
	}
}
