package backend

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/testutil"
)

type tokenFunc func() string

func (f tokenFunc) Token(context.Context) string { return f() }

func TestLogin_KeepsIdentifierFields(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Handle(http.MethodPost, "/auth/login/doctor", http.StatusOK,
		`{"token":"jwt","role":"ROLE_DOCTOR","doctorID":7}`)

	c := New(gateway.New(fake.URL()))
	resp, err := c.Login(context.Background(), entity.RoleDoctor, Credentials{Email: "d@x.io", Password: "Abcdef1!"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "jwt" || resp.Role != "ROLE_DOCTOR" {
		t.Errorf("Unexpected response %+v", resp)
	}
	if id, ok := entity.ResolveID(entity.KindAccount, resp.Fields); !ok || id != 7 {
		t.Errorf("Expected doctor id 7, got %d (%v)", id, ok)
	}

	reqs := fake.RequestsTo(http.MethodPost, "/auth/login/doctor")
	if len(reqs) != 1 {
		t.Fatalf("Expected one login call, got %d", len(reqs))
	}
	var creds map[string]string
	reqs[0].DecodeBody(t, &creds)
	if creds["email"] != "d@x.io" || creds["password"] != "Abcdef1!" {
		t.Errorf("Unexpected credentials body %v", creds)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Handle(http.MethodPost, "/auth/login/admin", http.StatusOK, `{"role":"admin","id":1}`)

	_, err := New(gateway.New(fake.URL())).Login(context.Background(), entity.RoleAdmin, Credentials{})
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("Expected ErrMissingToken, got %v", err)
	}
}

func TestEndpointPaths(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeBackend(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/patient/add"},
		{http.MethodGet, "/admin/all"},
		{http.MethodDelete, "/doctor/delete/4"},
		{http.MethodPut, "/doctor/4"},
		{http.MethodPut, "/patient/9"},
		{http.MethodPost, "/admin/add-doctor"},
		{http.MethodPost, "/admin/add-patient"},
		{http.MethodPost, "/appointment/book"},
		{http.MethodPut, "/appointment/update-status/3"},
		{http.MethodPost, "/report/upload"},
	} {
		fake.Handle(route.method, route.path, http.StatusOK, "")
	}
	fake.Handle(http.MethodGet, "/report/get/patient/9", http.StatusOK, `[{"id":1,"reportType":"Blood"}]`)
	fake.Handle(http.MethodGet, "/appointment/doctor/4", http.StatusOK,
		`[{"id":3,"patient":{"patientId":9},"doctor":{"doctorID":4},"status":"Scheduled"}]`)

	c := New(gateway.New(fake.URL()))
	mustOK := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	mustOK(c.Register(ctx, entity.RolePatient, entity.PatientAccount{}))
	_, err := c.ListAccounts(ctx, entity.RoleAdmin)
	mustOK(err)
	mustOK(c.DeleteAccount(ctx, entity.RoleDoctor, 4))
	mustOK(c.UpdateDoctor(ctx, 4, entity.DoctorAccount{}))
	mustOK(c.UpdatePatient(ctx, 9, entity.PatientAccount{}))
	mustOK(c.AdminAddDoctor(ctx, entity.DoctorAccount{}))
	mustOK(c.AdminAddPatient(ctx, entity.PatientAccount{}))
	mustOK(c.BookAppointment(ctx, entity.AppointmentBooking{}))
	mustOK(c.UpdateAppointmentStatus(ctx, 3, entity.StatusUpdate{Status: entity.StatusCompleted}))
	mustOK(c.UploadReport(ctx, entity.ReportUpload{}))

	reports, err := c.PatientReports(ctx, 9)
	mustOK(err)
	if len(reports) != 1 || reports[0].ReportType != "Blood" {
		t.Errorf("Unexpected reports %+v", reports)
	}

	appts, err := c.DoctorAppointments(ctx, 4)
	mustOK(err)
	if pid, ok := appts[0].PatientID(); !ok || pid != 9 {
		t.Errorf("Expected nested patient id 9, got %d", pid)
	}

	if n := len(fake.Requests()); n != 12 {
		t.Errorf("Expected 12 backend calls, got %d", n)
	}
}

func TestWithTokens_SendsSessionToken(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Handle(http.MethodGet, "/doctor/all", http.StatusOK, `[]`)

	base := New(gateway.New(fake.URL()))
	if _, err := base.WithTokens(tokenFunc(func() string { return "t1" })).ListDoctors(context.Background()); err != nil {
		t.Fatalf("ListDoctors failed: %v", err)
	}
	if got := fake.Requests()[0].Authorization; got != "Bearer t1" {
		t.Errorf("Expected Bearer t1, got %q", got)
	}
}
