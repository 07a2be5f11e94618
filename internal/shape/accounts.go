package shape

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

// SignupFields lists the form fields each role's signup screen shows, in
// payload order.
var SignupFields = map[entity.Role][]string{
	entity.RoleAdmin: {"name", "email", "password"},
	entity.RoleDoctor: {"fullName", "email", "passwordHash", "specialty",
		"designation", "qualification", "experienceYears", "contactNumber"},
	entity.RolePatient: {"fullName", "dateOfBirth", "gender", "contactNumber",
		"email", "passwordHash", "medicalHistory", "registrationDate"},
}

// SignupDefaults are the initial values of the signup form.
func SignupDefaults(now time.Time) map[string]string {
	return map[string]string{
		"gender":           entity.DefaultSignupGender,
		"specialty":        entity.DefaultSpecialty,
		"registrationDate": now.Format(entity.DateLayout),
	}
}

// Signup picks the role's fields out of the flat form values. The returned
// value is one of the entity account structs, whose field order is the
// payload order.
func Signup(role entity.Role, values map[string]string) (interface{}, error) {
	switch role {
	case entity.RoleAdmin:
		return entity.AdminAccount{
			Name:     values["name"],
			Email:    values["email"],
			Password: values["password"],
		}, nil
	case entity.RoleDoctor:
		return entity.DoctorAccount{
			FullName:        values["fullName"],
			Email:           values["email"],
			PasswordHash:    values["passwordHash"],
			Specialty:       values["specialty"],
			Designation:     values["designation"],
			Qualification:   values["qualification"],
			ExperienceYears: ParseYears(values["experienceYears"]),
			ContactNumber:   values["contactNumber"],
		}, nil
	case entity.RolePatient:
		return entity.PatientAccount{
			FullName:         values["fullName"],
			DateOfBirth:      values["dateOfBirth"],
			Gender:           values["gender"],
			ContactNumber:    values["contactNumber"],
			Email:            values["email"],
			PasswordHash:     values["passwordHash"],
			MedicalHistory:   values["medicalHistory"],
			RegistrationDate: values["registrationDate"],
		}, nil
	}
	return nil, &ValidationError{Field: "role", Reason: ReasonUnknownRole}
}

// ParseYears reads the leading integer of s ("12", " 7 years", "-1").
// Anything without leading digits is 0.
func ParseYears(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
