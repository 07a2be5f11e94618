package entity

// Field order in these structs is the backend's model field order and is
// what encoding/json emits. Do not reorder.

// AdminAccount is the admin signup payload.
type AdminAccount struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DoctorAccount is the doctor signup and admin add-doctor payload.
type DoctorAccount struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PasswordHash    string `json:"passwordHash"`
	Specialty       string `json:"specialty"`
	Designation     string `json:"designation"`
	Qualification   string `json:"qualification"`
	ExperienceYears int    `json:"experienceYears"`
	ContactNumber   string `json:"contactNumber"`
}

// PatientAccount is the patient signup and admin add-patient payload.
type PatientAccount struct {
	FullName         string `json:"fullName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	ContactNumber    string `json:"contactNumber"`
	Email            string `json:"email"`
	PasswordHash     string `json:"passwordHash"`
	MedicalHistory   string `json:"medicalHistory"`
	RegistrationDate string `json:"registrationDate"`
}

// Doctor is a doctor as read back from the backend.
type Doctor struct {
	DoctorID        ID     `json:"doctorID"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Specialty       string `json:"specialty"`
	Designation     string `json:"designation"`
	Qualification   string `json:"qualification"`
	ExperienceYears int    `json:"experienceYears"`
	ContactNumber   string `json:"contactNumber"`
}

// Patient is a patient as read back from the backend.
type Patient struct {
	PatientID        ID     `json:"patientId"`
	FullName         string `json:"fullName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	ContactNumber    string `json:"contactNumber"`
	Email            string `json:"email"`
	MedicalHistory   string `json:"medicalHistory"`
	RegistrationDate string `json:"registrationDate"`
}

const DefaultSpecialty = "GeneralMedicine"

// Specialties offered by the doctor forms.
var Specialties = []string{
	"Cardiology",
	"Orthopedics",
	"Pediatrics",
	"Neurology",
	"Dermatology",
	"GeneralMedicine",
	"Anesthesia",
	"Psychiatry",
	"ENT",
}

// Signup and the admin patient modal use different gender spellings; both
// are sent to the backend verbatim.
var (
	SignupGenders = []string{"Male", "Female", "Other"}
	AdminGenders  = []string{"MALE", "FEMALE", "OTHER"}
)

const (
	DefaultSignupGender = "Male"
	DefaultAdminGender  = "MALE"
)

// DateLayout is the YYYY-MM-DD form used for every date field.
const DateLayout = "2006-01-02"
