package account

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/http/respond"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
)

type Handler struct {
	service  *Service
	sessions *auth.Sessions
}

func NewHandler(backend Backend, sessions *auth.Sessions, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Handler {
	return &Handler{
		service:  NewService(backend, publisher, metrics),
		sessions: sessions,
	}
}

// LoginScreen serves GET /login.
func (h *Handler) LoginScreen(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, NewLoginScreen())
}

// Login serves POST /login. The session cookie is only set once the
// backend accepted the credentials and the session was saved.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	sc := h.sessions.Begin()
	resp, err := h.service.Login(r.Context(), sc, req)
	if errors.Is(err, ErrLoginFailed) {
		status := http.StatusUnauthorized
		if s := gateway.StatusOf(err); s == 0 || s >= 500 {
			status = http.StatusBadGateway
		}
		respond.Error(w, status, "login_failed", MsgLoginFailed)
		return
	}
	if err != nil {
		respond.Failure(w, r, err)
		return
	}

	if err := h.sessions.Commit(w, sc); err != nil {
		log.Error().Err(err).Msg("failed to issue session cookie")
		if cerr := sc.Clear(r.Context()); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to discard uncommitted session")
		}
		respond.Error(w, http.StatusInternalServerError, "internal_error", "Failed to start session")
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

// SignupScreen serves GET /signup?role=.
func (h *Handler) SignupScreen(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("role")
	if raw == "" {
		raw = string(entity.RoleAdmin)
	}
	role, err := entity.ParseRole(raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_role", err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, NewSignupScreen(role, time.Now()))
}

// Signup serves POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		respond.Error(w, respond.BackendStatus(err), "signup_failed", MsgSignupFailed+gwErr.Message)
		return
	}
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, resp)
}

// Logout serves POST /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, entity.PathLogin, http.StatusFound)
}
