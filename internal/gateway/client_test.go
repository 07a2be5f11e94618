package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

type recordedCall struct {
	method string
	path   string
	status int
}

type fakeRecorder struct {
	calls []recordedCall
}

func (f *fakeRecorder) RecordBackendRequest(_ context.Context, method, path string, status int, _ float64) {
	f.calls = append(f.calls, recordedCall{method, path, status})
}

func TestClient_AttachesBearerAndDecodes(t *testing.T) {
	var gotAuth, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"reason":"checkup"}`))
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	c := New(srv.URL+"/", WithTokenSource(staticToken("abc")), WithMetrics(rec))

	var out struct {
		ID     int    `json:"id"`
		Reason string `json:"reason"`
	}
	err := c.Post(context.Background(), "/appointment/book", map[string]string{"reason": "checkup"}, &out)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotType)
	}
	if gotBody != `{"reason":"checkup"}` {
		t.Errorf("Unexpected body %s", gotBody)
	}
	if out.ID != 3 || out.Reason != "checkup" {
		t.Errorf("Unexpected decoded value %+v", out)
	}
	if len(rec.calls) != 1 || rec.calls[0].status != 200 || rec.calls[0].path != "/appointment/book" {
		t.Errorf("Expected one recorded call, got %+v", rec.calls)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("Expected no Authorization header, got %q", h)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(staticToken("")))
	if err := c.Delete(context.Background(), "/doctor/delete/1", nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", 400, `{"message":"Email already exists"}`, "Email already exists"},
		{"error field", 401, `{"error":"Bad credentials"}`, "Bad credentials"},
		{"message wins over error", 409, `{"error":"Conflict","message":"Duplicate"}`, "Duplicate"},
		{"plain text", 500, "boom", "boom"},
		{"json string", 400, `"Invalid credentials"`, "Invalid credentials"},
		{"empty body", 404, "", "Not Found"},
		{"object without message", 403, `{"status":403}`, "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Get(context.Background(), "/doctor/all", nil)
			var gwErr *Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("Expected *Error, got %T (%v)", err, err)
			}
			if gwErr.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, gwErr.Status)
			}
			if gwErr.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, gwErr.Message)
			}
			if !errors.Is(err, ErrRequest) {
				t.Errorf("Expected error to wrap ErrRequest")
			}
		})
	}
}

func TestClient_NetworkFailureIsStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url).Get(context.Background(), "/patient/all", nil)
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if gwErr.Status != 0 {
		t.Errorf("Expected status 0, got %d", gwErr.Status)
	}
	if StatusOf(err) != 0 || IsUnauthorized(err) {
		t.Errorf("Unexpected classification for network failure")
	}
}

func TestClient_RawStringOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Deleted"))
	}))
	defer srv.Close()

	var out string
	if err := New(srv.URL).Delete(context.Background(), "/admin/delete/2", &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != "Deleted" {
		t.Errorf("Expected raw body, got %q", out)
	}
}

func TestIsUnauthorized(t *testing.T) {
	err := &Error{Status: http.StatusUnauthorized, Message: "expired"}
	if !IsUnauthorized(err) {
		t.Errorf("Expected 401 to be unauthorized")
	}
	if MessageOf(err) != "expired" {
		t.Errorf("Expected backend message, got %q", MessageOf(err))
	}
	if IsUnauthorized(errors.New("other")) {
		t.Errorf("Expected plain error not to be unauthorized")
	}
}
