package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/WailSalutem-Health-Care/care-portal/internal/account"
	"github.com/WailSalutem-Health-Care/care-portal/internal/admin"
	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/doctor"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/logging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/patient"
	"github.com/WailSalutem-Health-Care/care-portal/internal/telemetry"
)

const serviceName = "care-portal"

// Deps holds what the router wires into the handlers.
type Deps struct {
	Backend        *backend.Client
	Sessions       *auth.Sessions
	Permissions    auth.Permissions
	Publisher      messaging.PublisherInterface
	Metrics        *telemetry.Metrics
	AllowedOrigins []string
	// LoginRateLimit is login attempts per minute per client IP; zero
	// disables the limit.
	LoginRateLimit int
}

// NewHandler is the portal's root handler. CORS wraps the router so that
// preflight requests are answered before route matching.
func NewHandler(d Deps) http.Handler {
	return CORSMiddleware(d.AllowedOrigins)(SetupRouter(d))
}

// SetupRouter initializes all routes for the portal.
func SetupRouter(d Deps) *mux.Router {
	publisher := d.Publisher
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	metrics := d.Metrics
	if metrics == nil {
		// a noop meter cannot fail instrument creation
		metrics, _ = telemetry.NewMetrics(noop.NewMeterProvider().Meter(serviceName))
	}

	// every screen talks to the backend with the token of its own session
	backendFor := func(ctx context.Context) *backend.Client {
		if sc, ok := auth.SessionContextFrom(ctx); ok {
			return d.Backend.WithTokens(sc)
		}
		return d.Backend
	}

	accountHandler := account.NewHandler(d.Backend, d.Sessions, publisher, metrics)
	adminHandler := admin.NewHandler(func(ctx context.Context) admin.Backend { return backendFor(ctx) }, publisher)
	doctorHandler := doctor.NewHandler(func(ctx context.Context) doctor.Backend { return backendFor(ctx) }, publisher, metrics)
	patientHandler := patient.NewHandler(func(ctx context.Context) patient.Backend { return backendFor(ctx) }, publisher, metrics)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(serviceName))
	r.Use(MetricsMiddleware(metrics))
	r.Use(logging.Requests)

	protected := func(permission string, h http.HandlerFunc) http.Handler {
		return d.Sessions.Require(
			auth.RequirePermissionWithMetrics(permission, d.Permissions, metrics)(h),
		)
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"care-portal"}`))
	}).Methods("GET")

	r.Handle("/", toLogin()).Methods("GET")

	// Login and signup screens
	r.HandleFunc(entity.PathLogin, accountHandler.LoginScreen).Methods("GET")
	var login http.Handler = http.HandlerFunc(accountHandler.Login)
	if d.LoginRateLimit > 0 {
		login = httprate.LimitByIP(d.LoginRateLimit, time.Minute)(login)
	}
	r.Handle(entity.PathLogin, login).Methods("POST")
	r.HandleFunc(entity.PathSignup, accountHandler.SignupScreen).Methods("GET")
	r.HandleFunc(entity.PathSignup, accountHandler.Signup).Methods("POST")
	r.HandleFunc("/logout", accountHandler.Logout).Methods("POST")

	// Admin dashboard
	r.Handle(entity.PathAdminDashboard,
		protected(auth.PermAccountsView, adminHandler.List),
	).Methods("GET")

	r.Handle(entity.PathAdminDashboard+"/{tab}",
		protected(auth.PermAccountsCreate, adminHandler.Create),
	).Methods("POST")

	r.Handle(entity.PathAdminDashboard+"/{tab}/{id}",
		protected(auth.PermAccountsUpdate, adminHandler.Update),
	).Methods("PUT")

	r.Handle(entity.PathAdminDashboard+"/{tab}/{id}",
		protected(auth.PermAccountsDelete, adminHandler.Delete),
	).Methods("DELETE")

	// Doctor dashboard
	r.Handle(entity.PathDoctorDashboard,
		protected(auth.PermConsultationView, doctorHandler.Dashboard),
	).Methods("GET")

	r.Handle(entity.PathDoctorDashboard+"/appointments/{id}/report",
		protected(auth.PermConsultationFinish, doctorHandler.CompleteConsultation),
	).Methods("POST")

	// Patient dashboard
	r.Handle(entity.PathPatientDashboard,
		protected(auth.PermAppointmentsView, patientHandler.Dashboard),
	).Methods("GET")

	r.Handle(entity.PathPatientDashboard+"/appointments",
		protected(auth.PermAppointmentsBook, patientHandler.Book),
	).Methods("POST")

	// unknown paths land on the login screen
	r.NotFoundHandler = toLogin()

	return r
}

func toLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, entity.PathLogin, http.StatusFound)
	})
}
