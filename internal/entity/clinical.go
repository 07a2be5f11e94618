package entity

import "encoding/json"

const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
)

// PatientRef is the nested patient object of appointments and reports.
// On writes only the identifier is set, so it encodes as {"patientId": n}.
type PatientRef struct {
	PatientID ID     `json:"patientId"`
	FullName  string `json:"fullName,omitempty"`
}

// UnmarshalJSON accepts whichever identifier key the backend used.
func (p *PatientRef) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	id, _ := ResolveID(KindPatient, fields)
	p.PatientID = id
	p.FullName = Record(fields).String("fullName")
	return nil
}

// DoctorRef is the nested doctor object; encodes as {"doctorID": n} on writes.
type DoctorRef struct {
	DoctorID  ID     `json:"doctorID"`
	FullName  string `json:"fullName,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

func (d *DoctorRef) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	id, _ := ResolveID(KindDoctor, fields)
	d.DoctorID = id
	rec := Record(fields)
	d.FullName = rec.String("fullName")
	d.Specialty = rec.String("specialty")
	return nil
}

// Appointment as read from the backend. Patient and Doctor are nil when the
// backend did not populate the relation.
type Appointment struct {
	ID              ID          `json:"id"`
	Patient         *PatientRef `json:"patient,omitempty"`
	Doctor          *DoctorRef  `json:"doctor,omitempty"`
	AppointmentDate string      `json:"appointmentDate"`
	Reason          string      `json:"reason"`
	Status          string      `json:"status"`
}

// PatientID returns the nested patient identifier, if any.
func (a Appointment) PatientID() (ID, bool) {
	if a.Patient == nil || a.Patient.PatientID.IsZero() {
		return 0, false
	}
	return a.Patient.PatientID, true
}

func (a Appointment) Completed() bool {
	return a.Status == StatusCompleted
}

// Report (medical record) as read from the backend.
type Report struct {
	ID          ID          `json:"id"`
	Patient     *PatientRef `json:"patient,omitempty"`
	Doctor      *DoctorRef  `json:"doctor,omitempty"`
	ReportType  string      `json:"reportType"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// AppointmentBooking is the POST /appointment/book payload.
type AppointmentBooking struct {
	Patient         PatientRef `json:"patient"`
	Doctor          DoctorRef  `json:"doctor"`
	AppointmentDate string     `json:"appointmentDate"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
}

// ReportUpload is the POST /report/upload payload.
type ReportUpload struct {
	Patient     PatientRef `json:"patient"`
	Doctor      DoctorRef  `json:"doctor"`
	ReportType  string     `json:"reportType"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
}

// StatusUpdate is the PUT /appointment/update-status/{id} payload.
type StatusUpdate struct {
	Status string `json:"status"`
}
