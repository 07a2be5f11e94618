package telemetry

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/WailSalutem-Health-Care/care-portal"

// Metrics holds all custom metrics for the portal
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Backend metrics
	BackendRequestsTotal metric.Int64Counter
	BackendDurationMs    metric.Float64Histogram

	// Business metrics
	LoginsTotal        metric.Int64Counter
	AccountsTotal      metric.Int64Counter
	BookingsTotal      metric.Int64Counter
	ConsultationsTotal metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics creates the instruments on the global meter provider.
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(meterName))
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	counters := []struct {
		dst              *metric.Int64Counter
		name, desc, unit string
	}{
		{&m.HTTPRequestsTotal, "http_server_requests_total", "Total number of HTTP requests", "{request}"},
		{&m.BackendRequestsTotal, "backend_requests_total", "Total number of REST backend calls", "{request}"},
		{&m.LoginsTotal, "portal_logins_total", "Login attempts by role and outcome", "{login}"},
		{&m.AccountsTotal, "portal_account_operations_total", "Account operations by role", "{operation}"},
		{&m.BookingsTotal, "portal_bookings_total", "Appointment bookings by outcome", "{booking}"},
		{&m.ConsultationsTotal, "portal_consultations_total", "Consultations by outcome", "{consultation}"},
		{&m.AuthFailuresTotal, "auth_failures_total", "Total number of authentication failures", "{failure}"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
	}

	histograms := []struct {
		dst        *metric.Float64Histogram
		name, desc string
	}{
		{&m.HTTPDurationMs, "http_server_duration_milliseconds", "HTTP request duration in milliseconds"},
		{&m.BackendDurationMs, "backend_request_duration_milliseconds", "REST backend call duration in milliseconds"},
		{&m.PermissionCheckDuration, "permission_check_duration_ms", "Permission check duration in milliseconds"},
	}
	for _, h := range histograms {
		*h.dst, err = meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit("ms"))
		if err != nil {
			return nil, err
		}
	}

	log.Debug().Msg("custom metrics initialized")
	return &m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

// RecordBackendRequest records one REST backend call. Status 0 is a
// transport failure.
func (m *Metrics) RecordBackendRequest(ctx context.Context, method, path string, status int, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("backend_path", path),
		attribute.Int("http_status_code", status),
	)
	m.BackendRequestsTotal.Add(ctx, 1, attrs)
	m.BackendDurationMs.Record(ctx, durationMs, attrs)
}

func (m *Metrics) RecordLogin(ctx context.Context, role, outcome string) {
	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", role),
		attribute.String("outcome", outcome),
	))
}

// RecordAccountOperation records an account operation metric
func (m *Metrics) RecordAccountOperation(ctx context.Context, role, operation string) {
	m.AccountsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("role", role),
		attribute.String("operation", operation),
	))
}

func (m *Metrics) RecordBooking(ctx context.Context, outcome string) {
	m.BookingsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordConsultation(ctx context.Context, outcome string) {
	m.ConsultationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
