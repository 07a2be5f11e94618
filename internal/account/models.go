package account

import (
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

// LoginRequest is the login form. Role selects the backend namespace and
// defaults to admin, the first option of the role select.
type LoginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse tells the client where to go next.
type LoginResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Role     entity.Role `json:"role"`
	UserID   entity.ID   `json:"userId"`
	Redirect string      `json:"redirect"`
}

// SignupRequest is the flat signup form plus the chosen role. Values may be
// sent as strings or numbers.
type SignupRequest map[string]shape.Text

func (r SignupRequest) role() string {
	return string(r["role"])
}

// values flattens the form, filling the screen defaults for fields the
// client left out.
func (r SignupRequest) values(now time.Time) map[string]string {
	out := shape.SignupDefaults(now)
	for k, v := range r {
		if k == "role" {
			continue
		}
		out[k] = string(v)
	}
	return out
}

type SignupResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// RoleOption is one entry of the login role select.
type RoleOption struct {
	Value entity.Role `json:"value"`
	Label string      `json:"label"`
}

// LoginScreen describes the login form.
type LoginScreen struct {
	Roles       []RoleOption `json:"roles"`
	DefaultRole entity.Role  `json:"defaultRole"`
	SignupPath  string       `json:"signupPath"`
}

// SignupScreen describes the signup form for one role.
type SignupScreen struct {
	Role          entity.Role       `json:"role"`
	Roles         []entity.Role     `json:"roles"`
	Fields        []string          `json:"fields"`
	PasswordField string            `json:"passwordField"`
	Defaults      map[string]string `json:"defaults"`
	Specialties   []string          `json:"specialties,omitempty"`
	Genders       []string          `json:"genders,omitempty"`
	LoginPath     string            `json:"loginPath"`
}

var roleLabels = map[entity.Role]string{
	entity.RoleAdmin:   "Admin Login",
	entity.RoleDoctor:  "Doctor Login",
	entity.RolePatient: "Patient Login",
}

func NewLoginScreen() LoginScreen {
	opts := make([]RoleOption, 0, len(entity.Roles))
	for _, r := range entity.Roles {
		opts = append(opts, RoleOption{Value: r, Label: roleLabels[r]})
	}
	return LoginScreen{Roles: opts, DefaultRole: entity.RoleAdmin, SignupPath: entity.PathSignup}
}

func NewSignupScreen(role entity.Role, now time.Time) SignupScreen {
	scr := SignupScreen{
		Role:          role,
		Roles:         entity.Roles,
		Fields:        shape.SignupFields[role],
		PasswordField: role.PasswordField(),
		Defaults:      shape.SignupDefaults(now),
		LoginPath:     entity.PathLogin,
	}
	switch role {
	case entity.RoleDoctor:
		scr.Specialties = entity.Specialties
	case entity.RolePatient:
		scr.Genders = entity.SignupGenders
	}
	return scr
}
