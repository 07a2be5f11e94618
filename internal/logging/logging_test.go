package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestSetupWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "production")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %s", zerolog.GlobalLevel())
	}

	SetupWriter(&buf, "chatty", "production")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("Expected unknown level to fall back to info, got %s", zerolog.GlobalLevel())
	}
}

func TestRequests_LogsStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "info", "production")

	h := Requests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin-dashboard?search=alice", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["path"] != "/admin-dashboard" {
		t.Errorf("Expected path without query, got %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("Expected status 404, got %v", entry["status"])
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected warn level for 4xx, got %v", entry["level"])
	}
	if strings.Contains(buf.String(), "alice") {
		t.Error("Query string must not be logged")
	}
}
