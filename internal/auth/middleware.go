package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
)

type ctxKey string

const (
	sessionKey        ctxKey = "auth_session"
	sessionContextKey ctxKey = "auth_session_context"
)

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/care-portal/auth")

// MetricsRecorder interface for recording auth metrics
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// PermissionMetricsRecorder interface for recording permission check metrics
type PermissionMetricsRecorder interface {
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// Sessions binds browser cookies to server-side sessions.
type Sessions struct {
	store   session.Store
	signer  *CookieSigner
	metrics MetricsRecorder
}

func NewSessions(store session.Store, signer *CookieSigner, metrics MetricsRecorder) *Sessions {
	return &Sessions{store: store, signer: signer, metrics: metrics}
}

// Begin binds a fresh session id for a login attempt. Nothing reaches the
// browser until Commit.
func (s *Sessions) Begin() *session.Context {
	return session.NewContext(s.store, NewSessionID())
}

// Commit sets the cookie naming sc. Call it once the session is saved.
func (s *Sessions) Commit(w http.ResponseWriter, sc *session.Context) error {
	return s.signer.Issue(w, sc.ID())
}

// ContextFor returns the session context named by the request cookie.
func (s *Sessions) ContextFor(r *http.Request) (*session.Context, error) {
	sid, err := s.signer.SessionID(r)
	if err != nil {
		return nil, err
	}
	return session.NewContext(s.store, sid), nil
}

// End clears the server-side session, if any, and expires the cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) {
	if sc, err := s.ContextFor(r); err == nil {
		if err := sc.Clear(r.Context()); err != nil {
			log.Warn().Err(err).Msg("failed to clear session on logout")
		}
	}
	s.signer.Expire(w)
}

// Require guards a protected screen. Without a complete session the stored
// state is cleared and the browser is sent to /login.
func (s *Sessions) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "auth.Require",
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		sc, err := s.ContextFor(r)
		if err != nil {
			s.reject(ctx, w, r, nil, span, "invalid_cookie")
			return
		}
		sess, err := sc.Load(ctx)
		if err != nil {
			reason := "no_session"
			if !errors.Is(err, session.ErrNoSession) {
				reason = "store_error"
				log.Error().Err(err).Msg("session store failure")
			}
			s.reject(ctx, w, r, sc, span, reason)
			return
		}

		span.SetAttributes(
			attribute.String("user.id", sess.UserID.String()),
			attribute.String("user.role", string(sess.Role)),
		)
		span.SetStatus(codes.Ok, "session loaded")

		ctx = context.WithValue(ctx, sessionKey, sess)
		ctx = context.WithValue(ctx, sessionContextKey, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Sessions) reject(ctx context.Context, w http.ResponseWriter, r *http.Request, sc *session.Context, span trace.Span, reason string) {
	span.SetStatus(codes.Error, reason)
	span.SetAttributes(attribute.String("error.type", reason))
	if s.metrics != nil {
		s.metrics.RecordAuthFailure(ctx, reason)
	}
	if sc != nil {
		if err := sc.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clear incomplete session")
		}
	}
	s.signer.Expire(w)
	http.Redirect(w, r, entity.PathLogin, http.StatusFound)
}

// RequirePermission returns middleware that ensures the session role has permission.
func RequirePermission(per string, perms Permissions) func(http.Handler) http.Handler {
	return RequirePermissionWithMetrics(per, perms, nil)
}

// RequirePermissionWithMetrics returns middleware with metrics recording
func RequirePermissionWithMetrics(per string, perms Permissions, metrics PermissionMetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := tracer.Start(r.Context(), "auth.RequirePermission",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", per)),
			)
			defer span.End()

			sess, ok := FromContext(ctx)
			if !ok {
				span.SetStatus(codes.Error, "unauthenticated")
				if metrics != nil {
					metrics.RecordPermissionCheck(ctx, per, float64(time.Since(start).Milliseconds()), false)
				}
				http.Redirect(w, r, entity.PathLogin, http.StatusFound)
				return
			}

			allowed := HasPermission(sess.Role, per, perms)
			span.SetAttributes(
				attribute.Bool("permission.allowed", allowed),
				attribute.String("user.role", string(sess.Role)),
			)
			if metrics != nil {
				metrics.RecordPermissionCheck(ctx, per, float64(time.Since(start).Milliseconds()), allowed)
			}

			if !allowed {
				log.Warn().Str("role", string(sess.Role)).Str("permission", per).Msg("permission denied")
				span.SetStatus(codes.Error, "forbidden")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","message":"You don't have permission to view this screen"}`))
				return
			}

			span.SetStatus(codes.Ok, "permission granted")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the session loaded by Require.
func FromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}

// SessionContextFrom returns the session context bound by Require. It is
// also the token source for backend calls made on behalf of the request.
func SessionContextFrom(ctx context.Context) (*session.Context, bool) {
	sc, ok := ctx.Value(sessionContextKey).(*session.Context)
	return sc, ok
}

// ExpireOnUnauthorized clears the request's session when err is a backend
// 401 and reports whether it did.
func ExpireOnUnauthorized(ctx context.Context, err error) bool {
	if !gateway.IsUnauthorized(err) {
		return false
	}
	sc, ok := SessionContextFrom(ctx)
	if !ok {
		return true
	}
	if cerr := sc.Clear(ctx); cerr != nil {
		log.Warn().Err(cerr).Msg("failed to clear session after backend 401")
	} else {
		log.Info().Msg("backend rejected token, session cleared")
	}
	return true
}
