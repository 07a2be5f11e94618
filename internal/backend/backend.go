// Package backend exposes one typed method per hospital REST endpoint.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
)

var ErrMissingToken = errors.New("login response carried no token")

// Client wraps the gateway with the endpoint table.
type Client struct {
	gw *gateway.Client
}

func New(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// WithTokens returns a client whose gateway sends the token of ts.
func (c *Client) WithTokens(ts gateway.TokenSource) *Client {
	return &Client{gw: c.gw.WithTokens(ts)}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse keeps the identifier fields raw; which of doctorID,
// patientId or id is present depends on the role.
type LoginResponse struct {
	Token  string
	Role   string
	Fields map[string]json.RawMessage
}

func (l *LoginResponse) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &l.Fields); err != nil {
		return err
	}
	rec := entity.Record(l.Fields)
	l.Token = rec.String("token")
	l.Role = rec.String("role")
	return nil
}

// Login posts the credentials to /auth/login/{role}.
func (c *Client) Login(ctx context.Context, role entity.Role, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.gw.Post(ctx, "/auth/login/"+string(role), creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMissingToken
	}
	return &resp, nil
}

// Register posts a signup payload to /{role}/add.
func (c *Client) Register(ctx context.Context, role entity.Role, payload interface{}) error {
	return c.gw.Post(ctx, "/"+string(role)+"/add", payload, nil)
}

// ListAccounts returns every account of a role in its raw record shape.
func (c *Client) ListAccounts(ctx context.Context, role entity.Role) ([]entity.Record, error) {
	var out []entity.Record
	if err := c.gw.Get(ctx, "/"+string(role)+"/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAccount calls DELETE /{role}/delete/{id}.
func (c *Client) DeleteAccount(ctx context.Context, role entity.Role, id entity.ID) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/%s/delete/%d", role, id), nil)
}

func (c *Client) ListDoctors(ctx context.Context) ([]entity.Doctor, error) {
	var out []entity.Doctor
	if err := c.gw.Get(ctx, "/doctor/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDoctor(ctx context.Context, id entity.ID) (*entity.Doctor, error) {
	var out entity.Doctor
	if err := c.gw.Get(ctx, fmt.Sprintf("/doctor/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id entity.ID, payload interface{}) error {
	return c.gw.Put(ctx, fmt.Sprintf("/doctor/%d", id), payload, nil)
}

func (c *Client) GetPatient(ctx context.Context, id entity.ID) (*entity.Patient, error) {
	var out entity.Patient
	if err := c.gw.Get(ctx, fmt.Sprintf("/patient/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id entity.ID, payload interface{}) error {
	return c.gw.Put(ctx, fmt.Sprintf("/patient/%d", id), payload, nil)
}

// AdminAddDoctor registers a doctor on behalf of an admin.
func (c *Client) AdminAddDoctor(ctx context.Context, payload interface{}) error {
	return c.gw.Post(ctx, "/admin/add-doctor", payload, nil)
}

// AdminAddPatient registers a patient on behalf of an admin.
func (c *Client) AdminAddPatient(ctx context.Context, payload interface{}) error {
	return c.gw.Post(ctx, "/admin/add-patient", payload, nil)
}

func (c *Client) DoctorAppointments(ctx context.Context, doctorID entity.ID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	if err := c.gw.Get(ctx, fmt.Sprintf("/appointment/doctor/%d", doctorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PatientAppointments(ctx context.Context, patientID entity.ID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	if err := c.gw.Get(ctx, fmt.Sprintf("/appointment/patient/%d", patientID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookAppointment(ctx context.Context, booking entity.AppointmentBooking) error {
	return c.gw.Post(ctx, "/appointment/book", booking, nil)
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID entity.ID, update entity.StatusUpdate) error {
	return c.gw.Put(ctx, fmt.Sprintf("/appointment/update-status/%d", appointmentID), update, nil)
}

func (c *Client) DoctorReports(ctx context.Context, doctorID entity.ID) ([]entity.Report, error) {
	var out []entity.Report
	if err := c.gw.Get(ctx, fmt.Sprintf("/report/doctor/%d", doctorID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatientReports uses the /report/get/patient/{id} spelling the backend exposes.
func (c *Client) PatientReports(ctx context.Context, patientID entity.ID) ([]entity.Report, error) {
	var out []entity.Report
	if err := c.gw.Get(ctx, fmt.Sprintf("/report/get/patient/%d", patientID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UploadReport(ctx context.Context, report entity.ReportUpload) error {
	return c.gw.Post(ctx, "/report/upload", report, nil)
}
