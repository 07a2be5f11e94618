package account

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

// Backend is the unauthenticated part of the REST API.
type Backend interface {
	Login(ctx context.Context, role entity.Role, creds backend.Credentials) (*backend.LoginResponse, error)
	Register(ctx context.Context, role entity.Role, payload interface{}) error
}

// MetricsRecorder interface for recording account metrics
type MetricsRecorder interface {
	RecordLogin(ctx context.Context, role, outcome string)
	RecordAccountOperation(ctx context.Context, role, operation string)
}

type Service struct {
	backend   Backend
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	now       func() time.Time
}

func NewService(backend Backend, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{backend: backend, publisher: publisher, metrics: metrics, now: time.Now}
}

// Login authenticates against /auth/login/{role} and saves token, role and
// user id into sc. The redirect follows the role the backend returned, not
// the one selected on the form.
func (s *Service) Login(ctx context.Context, sc *session.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Role == "" {
		req.Role = string(entity.RoleAdmin)
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return nil, &shape.ValidationError{Field: "role", Reason: shape.ReasonUnknownRole}
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.backend.Login(ctx, role, backend.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		s.recordLogin(ctx, role, "failed")
		log.Info().Str("role", string(role)).Err(err).Msg("login rejected")
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	sess, err := sc.Save(ctx, resp.Token, resp.Role, resp.Fields)
	if err != nil {
		s.recordLogin(ctx, role, "error")
		return nil, err
	}
	s.recordLogin(ctx, role, "success")
	if sess.UserID.IsZero() {
		log.Warn().Str("role", string(sess.Role)).Msg("login response carried no user id")
	}

	return &LoginResponse{
		Success:  true,
		Message:  MsgLoginSuccess,
		Role:     sess.Role,
		UserID:   sess.UserID,
		Redirect: sess.Role.DashboardPath(),
	}, nil
}

// Signup runs the submit gate, builds the role's payload and posts it to
// /{role}/add. Nothing is sent when the gate is closed.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	raw := req.role()
	if raw == "" {
		raw = string(entity.RoleAdmin)
	}
	role, err := entity.ParseRole(raw)
	if err != nil {
		return nil, &shape.ValidationError{Field: "role", Reason: shape.ReasonUnknownRole}
	}

	values := req.values(s.now())
	form := validation.NewForm(role)
	for field, v := range values {
		form.Change(field, v)
	}
	if !form.CanSubmit() {
		fe := validation.FieldErrors{}
		for _, field := range []string{"email", role.PasswordField()} {
			if msg := validation.FieldMessage(field, form.Value(field)); msg != "" {
				fe[field] = msg
			}
		}
		return nil, fe
	}

	payload, err := shape.Signup(role, values)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Register(ctx, role, payload); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", role, err)
	}
	if s.metrics != nil {
		s.metrics.RecordAccountOperation(ctx, string(role), "signup")
	}
	log.Info().Str("role", string(role)).Msg("account registered")

	event := messaging.AccountRegisteredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAccountRegistered),
		Data:      messaging.AccountRegisteredData{Role: string(role), Email: values["email"], CreatedBy: "self"},
	}
	if err := s.publisher.Publish(ctx, messaging.EventAccountRegistered, event); err != nil {
		log.Warn().Err(err).Msg("failed to publish account.registered")
	}

	return &SignupResponse{Success: true, Message: MsgSignupSuccess, Redirect: entity.PathLogin}, nil
}

func (s *Service) recordLogin(ctx context.Context, role entity.Role, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(ctx, string(role), outcome)
	}
}
