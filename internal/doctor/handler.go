package doctor

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/http/respond"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

// BackendFunc returns the backend bound to the request's session.
type BackendFunc func(ctx context.Context) Backend

type Handler struct {
	backendFor BackendFunc
	publisher  messaging.PublisherInterface
	metrics    MetricsRecorder
}

func NewHandler(backendFor BackendFunc, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Handler {
	return &Handler{backendFor: backendFor, publisher: publisher, metrics: metrics}
}

func (h *Handler) service(r *http.Request) *Service {
	return NewService(h.backendFor(r.Context()), h.publisher, h.metrics)
}

// Dashboard serves GET /doctor-dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, entity.PathLogin, http.StatusFound)
		return
	}

	dash, err := h.service(r).Load(r.Context(), sess.UserID)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, dash)
}

// CompleteConsultation serves POST /doctor-dashboard/appointments/{id}/report.
// The response is the re-fetched dashboard with the consultation outcome.
func (h *Handler) CompleteConsultation(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, entity.PathLogin, http.StatusFound)
		return
	}

	apptID, err := entity.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "validation_error", "Invalid appointment id")
		return
	}

	var form shape.ReportForm
	if err := respond.Decode(r, &form); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	svc := h.service(r)
	result, err := svc.CompleteConsultation(r.Context(), sess.UserID, apptID, form)

	var stepErr *StepError
	switch {
	case err == nil:
	case errors.Is(err, ErrAppointmentNotFound):
		respond.Error(w, http.StatusNotFound, "not_found", err.Error())
		return
	case errors.Is(err, ErrAlreadyCompleted):
		respond.Error(w, http.StatusConflict, "already_completed", err.Error())
		return
	case errors.As(err, &stepErr) && gateway.IsUnauthorized(err):
		// the session ends here, but the client still learns what was filed
		respond.PartialFailure(w, r, err, result)
		return
	case errors.As(err, &stepErr):
		// fall through to the re-fetch so the screen shows what was filed
	default:
		respond.Failure(w, r, err)
		return
	}

	dash, lerr := svc.Load(r.Context(), sess.UserID)
	if lerr != nil {
		respond.Failure(w, r, lerr)
		return
	}
	dash.Consultation = result

	if stepErr != nil {
		dash.Success = false
		dash.Message = "Error completing consultation. Status: " + statusText(stepErr.Err)
		if stepErr.Partial() {
			dash.Message = "Report filed, but the appointment could not be marked Completed: " + gateway.MessageOf(stepErr.Err)
		}
		respond.JSON(w, respond.BackendStatus(stepErr.Err), dash)
		return
	}

	dash.Message = "Consultation finalized!"
	respond.JSON(w, http.StatusOK, dash)
}

func statusText(err error) string {
	if status := gateway.StatusOf(err); status != 0 {
		return strconv.Itoa(status)
	}
	return gateway.MessageOf(err)
}
