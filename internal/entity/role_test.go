package entity

import "testing"

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"ROLE_DOCTOR", RoleDoctor},
		{"role_doctor", RoleDoctor},
		{"Role_Patient", RolePatient},
		{"rOlE_ADMIN", RoleAdmin},
		{"doctor", RoleDoctor},
		{"DOCTOR", RoleDoctor},
		{"Patient", RolePatient},
		{"", Role("")},
		{"ROLE_", Role("")},
		{"ROLE_NURSE", Role("nurse")},
		// only a leading prefix is stripped
		{"SUPER_ROLE_ADMIN", Role("super_role_admin")},
	}

	for _, tt := range tests {
		got := NormalizeRole(tt.raw)
		if got != tt.want {
			t.Errorf("NormalizeRole(%q): expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestParseRole_RejectsUnknown(t *testing.T) {
	if _, err := ParseRole("ROLE_NURSE"); err != ErrUnknownRole {
		t.Errorf("Expected ErrUnknownRole, got %v", err)
	}
	r, err := ParseRole(" ROLE_Admin ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r != RoleAdmin {
		t.Errorf("Expected admin, got %s", r)
	}
}

func TestRole_DashboardPath(t *testing.T) {
	tests := map[Role]string{
		RoleAdmin:     "/admin-dashboard",
		RoleDoctor:    "/doctor-dashboard",
		RolePatient:   "/patient-dashboard",
		Role("nurse"): "/login",
	}
	for role, want := range tests {
		if got := role.DashboardPath(); got != want {
			t.Errorf("%s: expected %s, got %s", role, want, got)
		}
	}
}

func TestRole_PasswordField(t *testing.T) {
	if RoleAdmin.PasswordField() != "password" {
		t.Errorf("Expected admin credential field 'password', got %s", RoleAdmin.PasswordField())
	}
	if RoleDoctor.PasswordField() != "passwordHash" || RolePatient.PasswordField() != "passwordHash" {
		t.Error("Expected doctor and patient credential field 'passwordHash'")
	}
}
