package entity

import (
	"errors"
	"strings"
)

// Role identifies both the dashboard a user lands on and the backend
// endpoint namespace used for their account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// rolePrefix is the Spring Security style prefix some backends put in front
// of role names.
const rolePrefix = "ROLE_"

var ErrUnknownRole = errors.New("unknown role")

// Roles lists the roles in the order the login and signup screens offer them.
var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient}

// NormalizeRole strips a ROLE_ prefix (in any casing) and lower-cases the
// remainder. It never fails: an unrecognised role is returned normalized so
// the caller can decide where to send the user.
func NormalizeRole(raw string) Role {
	if len(raw) >= len(rolePrefix) && strings.EqualFold(raw[:len(rolePrefix)], rolePrefix) {
		raw = raw[len(rolePrefix):]
	}
	return Role(strings.ToLower(raw))
}

// ParseRole normalizes raw and rejects anything outside Roles.
func ParseRole(raw string) (Role, error) {
	r := NormalizeRole(strings.TrimSpace(raw))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Client-visible routes.
const (
	PathLogin            = "/login"
	PathSignup           = "/signup"
	PathAdminDashboard   = "/admin-dashboard"
	PathDoctorDashboard  = "/doctor-dashboard"
	PathPatientDashboard = "/patient-dashboard"
)

// DashboardPath is where a freshly logged-in user is sent. Unknown roles go
// back to the login screen.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return PathAdminDashboard
	case RoleDoctor:
		return PathDoctorDashboard
	case RolePatient:
		return PathPatientDashboard
	}
	return PathLogin
}

// PasswordField is the credential field name the backend expects for the
// role's account entity.
func (r Role) PasswordField() string {
	if r == RoleAdmin {
		return "password"
	}
	return "passwordHash"
}

func (r Role) String() string {
	return string(r)
}
