// Package e2e drives the whole portal over HTTP against a fake hospital
// backend.
package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	httpserver "github.com/WailSalutem-Health-Care/care-portal/internal/http"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
	"github.com/WailSalutem-Health-Care/care-portal/internal/testutil"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	Backend       *testutil.FakeBackend
	Sessions      *session.MemoryStore
	MockPublisher *testutil.MockPublisher
}

// SetupE2ETest creates a complete test environment for E2E testing
// This includes:
// - Fake hospital backend recording every request
// - Real HTTP server with all routes and the permissions file
// - Mock RabbitMQ publisher
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	fake := testutil.NewFakeBackend(t)
	mockPublisher := testutil.NewMockPublisher()
	sessions, _, store := testutil.NewTestSessions()

	perms, err := auth.LoadPermissions("../../configs/permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	handler := httpserver.NewHandler(httpserver.Deps{
		Backend:     backend.New(gateway.New(fake.URL())),
		Sessions:    sessions,
		Permissions: perms,
		Publisher:   mockPublisher,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:        server,
		Backend:       fake,
		Sessions:      store,
		MockPublisher: mockPublisher,
	}
}

// NewClient creates a browser-like client with its own cookie jar.
func (ts *TestServer) NewClient(t *testing.T) *testutil.PortalClient {
	t.Helper()
	return testutil.NewPortalClient(t, ts.Server.URL)
}
