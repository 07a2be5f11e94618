// Package respond writes the portal's JSON screens and error bodies.
package respond

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

// ErrorResponse is the body of every non-2xx portal answer.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	// Outcome is what a multi-step write got done before it failed.
	Outcome interface{} `json:"outcome,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func Error(w http.ResponseWriter, status int, errorType, message string) {
	JSON(w, status, ErrorResponse{Error: errorType, Message: message})
}

// Decode reads a JSON request body into v. An empty body leaves v as is.
func Decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Failure maps an operation error onto the portal's error taxonomy:
// validation errors are 400 and no request was sent; a backend 401 clears
// the session and points the client at /login; other backend failures keep
// the backend's message, passing 4xx statuses through and turning the rest
// into 502.
func Failure(w http.ResponseWriter, r *http.Request, err error) {
	PartialFailure(w, r, err, nil)
}

// PartialFailure is Failure for a write whose earlier steps already took
// effect on the backend. outcome rides along in backend error bodies so the
// client can tell what was filed.
func PartialFailure(w http.ResponseWriter, r *http.Request, err error, outcome interface{}) {
	var fieldErrs validation.FieldErrors
	var shapeErr *shape.ValidationError
	var gwErr *gateway.Error

	switch {
	case errors.As(err, &fieldErrs):
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Please fix validation errors before submitting.",
			Fields:  fieldErrs,
		})
	case errors.As(err, &shapeErr):
		JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: shapeErr.Reason,
			Fields:  map[string]string{shapeErr.Field: shapeErr.Reason},
		})
	case errors.As(err, &gwErr) && auth.ExpireOnUnauthorized(r.Context(), err):
		JSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:    "session_expired",
			Message:  gwErr.Message,
			Redirect: entity.PathLogin,
			Outcome:  outcome,
		})
	case errors.As(err, &gwErr):
		JSON(w, BackendStatus(err), ErrorResponse{Error: "backend_error", Message: gwErr.Message, Outcome: outcome})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		Error(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// BackendStatus is the portal status for a failed backend call: 4xx statuses
// pass through, everything else is a bad gateway.
func BackendStatus(err error) int {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Status >= 400 && gwErr.Status < 500 {
		return gwErr.Status
	}
	return http.StatusBadGateway
}
