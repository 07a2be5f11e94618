package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ErrRequest is wrapped by every *Error so callers can match any backend
// failure with errors.Is.
var ErrRequest = errors.New("backend request failed")

// Error is the uniform failure of a backend call. Status is 0 when no
// response was received.
type Error struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return ErrRequest
}

// Unauthorized reports a 401 from the backend, which means the stored token
// is no longer accepted.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is, or wraps, a backend 401.
func IsUnauthorized(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Unauthorized()
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Status
	}
	return 0
}

// MessageOf returns the user-facing message of err: the backend message for
// gateway errors, err.Error() otherwise.
func MessageOf(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

// messageFromBody picks the message field, then the error field, then the
// raw text, then the status text.
func messageFromBody(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var obj map[string]interface{}
		if err := json.Unmarshal(body, &obj); err == nil {
			for _, key := range []string{"message", "error"} {
				if s, ok := obj[key].(string); ok && s != "" {
					return s
				}
			}
		} else {
			var s string
			if err := json.Unmarshal(body, &s); err == nil && s != "" {
				return s
			}
			return trimmed
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
