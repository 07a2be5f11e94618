package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is one call received by the FakeBackend.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

// DecodeBody unmarshals the recorded JSON body into target.
func (r RecordedRequest) DecodeBody(t *testing.T, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, target); err != nil {
		t.Fatalf("Failed to decode %s %s body (%s): %v", r.Method, r.Path, string(r.Body), err)
	}
}

type cannedResponse struct {
	status int
	body   []byte
}

// FakeBackend is an httptest server standing in for the hospital REST API.
// Routes are exact method+path matches; anything else answers 404.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]cannedResponse
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{routes: map[string]cannedResponse{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeBackend) URL() string {
	return f.Server.URL
}

// Handle registers a canned response. body may be a string (sent verbatim),
// []byte, or any value encoded as JSON.
func (f *FakeBackend) Handle(method, path string, status int, body interface{}) {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(b)
		if err != nil {
			panic(fmt.Sprintf("testutil: cannot encode canned body: %v", err))
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = cannedResponse{status: status, body: raw}
}

// Requests returns a copy of every request received so far.
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo returns the requests received for method and path.
func (f *FakeBackend) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// AssertCalled fails the test unless method+path was called exactly n times.
func (f *FakeBackend) AssertCalled(t *testing.T, method, path string, n int) {
	t.Helper()
	if got := len(f.RequestsTo(method, path)); got != n {
		t.Errorf("Expected %d calls to %s %s, got %d", n, method, path, got)
	}
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no route"}`))
		return
	}
	if len(resp.body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}
