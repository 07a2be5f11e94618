package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
)

// TestCookieSecret signs the cookies of test portals.
const TestCookieSecret = "test-cookie-secret"

// NewTestSessions returns session middleware over a fresh memory store.
func NewTestSessions() (*auth.Sessions, *auth.CookieSigner, *session.MemoryStore) {
	store := session.NewMemoryStore()
	signer := auth.NewCookieSigner(TestCookieSecret, 0, false)
	return auth.NewSessions(store, signer, nil), signer, store
}

// SessionCookie stores sess under a new id and returns the signed cookie a
// browser would present for it.
func SessionCookie(t *testing.T, signer *auth.CookieSigner, store session.Store, sess *session.Session) *http.Cookie {
	t.Helper()

	sid := auth.NewSessionID()
	if err := store.Put(context.Background(), sid, sess); err != nil {
		t.Fatalf("Failed to store session: %v", err)
	}
	value, err := signer.Sign(sid)
	if err != nil {
		t.Fatalf("Failed to sign cookie: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: value}
}
