package shape

import (
	"encoding/json"
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

// DoctorDraft is the admin doctor modal. Every value is kept as typed text;
// ExperienceYears is only parsed when the payload is built.
type DoctorDraft struct {
	FullName        string `json:"fullName" validate:"required"`
	Specialty       string `json:"specialty" validate:"required"`
	ExperienceYears Text   `json:"experienceYears" validate:"required"`
	Qualification   string `json:"qualification" validate:"required"`
	Designation     string `json:"designation" validate:"required"`
	ContactNumber   string `json:"contactNumber" validate:"required"`
	Email           string `json:"email" validate:"required,hms_email"`
	PasswordHash    string `json:"passwordHash,omitempty"`
}

// PatientDraft is the admin patient modal.
type PatientDraft struct {
	FullName         string `json:"fullName" validate:"required"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required"`
	Gender           string `json:"gender" validate:"required"`
	ContactNumber    string `json:"contactNumber" validate:"required"`
	Email            string `json:"email" validate:"required,hms_email"`
	PasswordHash     string `json:"passwordHash,omitempty"`
	MedicalHistory   string `json:"medicalHistory"`
	RegistrationDate string `json:"registrationDate"`
}

// DoctorUpdate is the PUT /doctor/{id} body: the listed record with edits.
type DoctorUpdate struct {
	DoctorID entity.ID `json:"doctorID"`
	entity.DoctorAccount
}

// PatientUpdate is the PUT /patient/{id} body.
type PatientUpdate struct {
	PatientID entity.ID `json:"patientId"`
	entity.PatientAccount
}

func NewDoctorDraft() DoctorDraft {
	return DoctorDraft{Specialty: entity.DefaultSpecialty}
}

func NewPatientDraft(now time.Time) PatientDraft {
	return PatientDraft{
		Gender:           entity.DefaultAdminGender,
		RegistrationDate: now.Format(entity.DateLayout),
	}
}

// DoctorDraftFromRecord prefills the modal from a listed doctor.
func DoctorDraftFromRecord(rec entity.Record) DoctorDraft {
	d := DoctorDraft{
		FullName:        rec.String("fullName"),
		Specialty:       rec.String("specialty"),
		ExperienceYears: Text(rec.String("experienceYears")),
		Qualification:   rec.String("qualification"),
		Designation:     rec.String("designation"),
		ContactNumber:   rec.String("contactNumber"),
		Email:           rec.String("email"),
		PasswordHash:    rec.String("passwordHash"),
	}
	if d.Specialty == "" {
		d.Specialty = entity.DefaultSpecialty
	}
	return d
}

// PatientDraftFromRecord prefills the modal from a listed patient.
func PatientDraftFromRecord(rec entity.Record) PatientDraft {
	return PatientDraft{
		FullName:         rec.String("fullName"),
		DateOfBirth:      rec.String("dateOfBirth"),
		Gender:           rec.String("gender"),
		ContactNumber:    rec.String("contactNumber"),
		Email:            rec.String("email"),
		PasswordHash:     rec.String("passwordHash"),
		MedicalHistory:   rec.String("medicalHistory"),
		RegistrationDate: rec.String("registrationDate"),
	}
}

func (d DoctorDraft) account() entity.DoctorAccount {
	return entity.DoctorAccount{
		FullName:        d.FullName,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Specialty:       d.Specialty,
		Designation:     d.Designation,
		Qualification:   d.Qualification,
		ExperienceYears: ParseYears(string(d.ExperienceYears)),
		ContactNumber:   d.ContactNumber,
	}
}

// CreatePayload validates the draft for POST /admin/add-doctor. The password
// is only asked for on create.
func (d DoctorDraft) CreatePayload() (entity.DoctorAccount, error) {
	if err := checkDraft(d, d.PasswordHash, true); err != nil {
		return entity.DoctorAccount{}, err
	}
	return d.account(), nil
}

func (d DoctorDraft) UpdatePayload(id entity.ID) (DoctorUpdate, error) {
	if id.IsZero() {
		return DoctorUpdate{}, &ValidationError{Field: "doctorID", Reason: ReasonInvalidID}
	}
	if err := checkDraft(d, "", false); err != nil {
		return DoctorUpdate{}, err
	}
	return DoctorUpdate{DoctorID: id, DoctorAccount: d.account()}, nil
}

func (p PatientDraft) account() entity.PatientAccount {
	return entity.PatientAccount{
		FullName:         p.FullName,
		DateOfBirth:      p.DateOfBirth,
		Gender:           p.Gender,
		ContactNumber:    p.ContactNumber,
		Email:            p.Email,
		PasswordHash:     p.PasswordHash,
		MedicalHistory:   p.MedicalHistory,
		RegistrationDate: p.RegistrationDate,
	}
}

func (p PatientDraft) CreatePayload() (entity.PatientAccount, error) {
	if err := checkDraft(p, p.PasswordHash, true); err != nil {
		return entity.PatientAccount{}, err
	}
	return p.account(), nil
}

func (p PatientDraft) UpdatePayload(id entity.ID) (PatientUpdate, error) {
	if id.IsZero() {
		return PatientUpdate{}, &ValidationError{Field: "patientId", Reason: ReasonInvalidID}
	}
	if err := checkDraft(p, "", false); err != nil {
		return PatientUpdate{}, err
	}
	return PatientUpdate{PatientID: id, PatientAccount: p.account()}, nil
}

func checkDraft(draft interface{}, password string, creating bool) error {
	err := validation.Struct(draft)
	fe, _ := err.(validation.FieldErrors)
	if err != nil && fe == nil {
		return err
	}
	if creating && password == "" {
		if fe == nil {
			fe = validation.FieldErrors{}
		}
		fe["passwordHash"] = validation.MsgRequiredField
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Text is a form value that also accepts a JSON number, so API clients can
// send experienceYears either way.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}
