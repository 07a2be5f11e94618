package validation

import "github.com/WailSalutem-Health-Care/care-portal/internal/entity"

// Form tracks per-field values, errors and touched state for a signup-style
// form. Errors are computed on every change but only become visible once the
// field has been blurred.
type Form struct {
	role    entity.Role
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
}

func NewForm(role entity.Role) *Form {
	return &Form{
		role:    role,
		values:  map[string]string{},
		errors:  map[string]string{},
		touched: map[string]bool{},
	}
}

func (f *Form) Role() entity.Role {
	return f.role
}

// SetRole switches the role, which changes the applicable password field.
// Values entered so far are kept.
func (f *Form) SetRole(role entity.Role) {
	f.role = role
}

// Change records a new value and re-validates the field.
func (f *Form) Change(field, value string) {
	f.values[field] = value
	if msg := FieldMessage(field, value); msg != "" {
		f.errors[field] = msg
	} else {
		delete(f.errors, field)
	}
}

// Blur marks a field as touched.
func (f *Form) Blur(field string) {
	f.touched[field] = true
}

func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

func (f *Form) Value(field string) string {
	return f.values[field]
}

// Values returns a copy of the current values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Error returns the field's current error regardless of touched state.
func (f *Form) Error(field string) string {
	return f.errors[field]
}

// VisibleError returns the error only once the field has been touched.
func (f *Form) VisibleError(field string) string {
	if !f.touched[field] {
		return ""
	}
	return f.errors[field]
}

// VisibleErrors returns every error that should currently be rendered.
func (f *Form) VisibleErrors() map[string]string {
	out := map[string]string{}
	for field, msg := range f.errors {
		if f.touched[field] {
			out[field] = msg
		}
	}
	return out
}

// CanSubmit gates the submit button: the email must pass and so must the
// password field that applies to the current role.
func (f *Form) CanSubmit() bool {
	return IsEmail(f.values["email"]) && IsStrongPassword(f.values[f.role.PasswordField()])
}
