// Package gateway is the single transport to the hospital REST backend.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/care-portal/gateway")

// TokenSource supplies the bearer token for the current session. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) string
}

// MetricsRecorder records one backend call.
type MetricsRecorder interface {
	RecordBackendRequest(ctx context.Context, method, path string, status int, durationMs float64)
}

// Client sends JSON requests to the backend. It never retries and sets no
// timeout of its own; cancellation comes from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    MetricsRecorder
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTokens returns a copy of the client bound to another token source.
// The portal binds one per browser session.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends body (JSON-encoded when non-nil) to path and decodes a 2xx
// response into out. out may be nil, a *string for the raw text, or any
// JSON target. Every non-2xx response and every transport failure is
// returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := tracer.Start(ctx, "gateway."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer span.End()

	start := time.Now()
	status := 0
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordBackendRequest(ctx, method, path, status, float64(time.Since(start).Milliseconds()))
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode request")
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return &Error{Status: 0, Message: err.Error(), Method: method, Path: path}
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read response")
		return &Error{Status: status, Message: fmt.Sprintf("read response: %v", err), Method: method, Path: path}
	}

	if status < 200 || status > 299 {
		gwErr := &Error{Status: status, Message: messageFromBody(status, data), Method: method, Path: path}
		span.SetStatus(codes.Error, gwErr.Message)
		log.Warn().Int("status", status).Str("method", method).Str("path", path).Msg("backend request failed")
		return gwErr
	}

	span.SetStatus(codes.Ok, "")
	log.Debug().Int("status", status).Str("method", method).Str("path", path).Msg("backend request")
	return decodeInto(out, data, method, path)
}

func decodeInto(out interface{}, data []byte, method, path string) error {
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(data)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
