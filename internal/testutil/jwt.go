package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

var backendSigningKey = []byte("fake-backend-signing-key")

// GenerateBackendToken creates a token shaped like the ones the hospital
// backend hands out at login. The portal treats it as opaque; tests use it
// to check which token reached the backend.
func GenerateBackendToken(t *testing.T, role entity.Role, userID int64) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": "ROLE_" + string(role),
		"exp":  time.Now().Add(1 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(backendSigningKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}

// LoginBody is the backend's login response for role. The identifier sits
// under the key the real backend uses for that role.
func LoginBody(token string, role entity.Role, userID int64) map[string]interface{} {
	body := map[string]interface{}{
		"token": token,
		"role":  "ROLE_" + string(role),
	}
	switch role {
	case entity.RoleDoctor:
		body["doctorID"] = userID
	case entity.RolePatient:
		body["patientId"] = userID
	default:
		body["id"] = userID
	}
	return body
}

// HandleLogin registers a successful login for role on the fake backend and
// returns the token it will hand out.
func (f *FakeBackend) HandleLogin(t *testing.T, role entity.Role, userID int64) string {
	t.Helper()
	token := GenerateBackendToken(t, role, userID)
	f.Handle("POST", "/auth/login/"+string(role), 200, LoginBody(token, role, userID))
	return token
}
