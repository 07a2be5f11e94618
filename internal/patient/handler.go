package patient

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
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

// Dashboard serves GET /patient-dashboard.
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

const bookedMessage = "Appointment Booked!"

// Book serves POST /patient-dashboard/appointments and answers with the
// reloaded dashboard. Once the backend has accepted the booking the answer
// is 201 even if the reload fails; the reload failure is reported in
// reloadError. A 401 on reload still ends the session.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, entity.PathLogin, http.StatusFound)
		return
	}

	var form shape.BookingForm
	if err := respond.Decode(r, &form); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	svc := h.service(r)
	if err := svc.Book(r.Context(), sess.UserID, form); err != nil {
		respond.Failure(w, r, err)
		return
	}

	dash, err := svc.Load(r.Context(), sess.UserID)
	if err != nil {
		booked := &Dashboard{Success: true, Message: bookedMessage}
		if gateway.IsUnauthorized(err) {
			respond.PartialFailure(w, r, err, booked)
			return
		}
		log.Warn().Err(err).Str("patientId", sess.UserID.String()).Msg("appointment booked but dashboard reload failed")
		booked.ReloadError = gateway.MessageOf(err)
		respond.JSON(w, http.StatusCreated, booked)
		return
	}
	dash.Message = bookedMessage
	respond.JSON(w, http.StatusCreated, dash)
}
