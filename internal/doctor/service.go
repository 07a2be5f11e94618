package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

// Backend is the slice of the REST API the doctor screen uses.
type Backend interface {
	GetDoctor(ctx context.Context, id entity.ID) (*entity.Doctor, error)
	DoctorAppointments(ctx context.Context, doctorID entity.ID) ([]entity.Appointment, error)
	DoctorReports(ctx context.Context, doctorID entity.ID) ([]entity.Report, error)
	UploadReport(ctx context.Context, report entity.ReportUpload) error
	UpdateAppointmentStatus(ctx context.Context, appointmentID entity.ID, update entity.StatusUpdate) error
}

// MetricsRecorder interface for recording consultation outcomes
type MetricsRecorder interface {
	RecordConsultation(ctx context.Context, outcome string)
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

// Load reads the profile, appointments and reports independently. A failed
// read only marks its own section. The returned error is non-nil only when
// the backend rejected the session token, since no section can load then.
func (s *Service) Load(ctx context.Context, doctorID entity.ID) (*Dashboard, error) {
	dash := &Dashboard{Success: true}
	var profileErr, apptErr, reportErr error

	// Each goroutine returns nil so one failure never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		dash.Profile.Data, profileErr = s.backend.GetDoctor(ctx, doctorID)
		return nil
	})
	g.Go(func() error {
		dash.Appointments.Data, apptErr = s.backend.DoctorAppointments(ctx, doctorID)
		return nil
	})
	g.Go(func() error {
		dash.Reports.Data, reportErr = s.backend.DoctorReports(ctx, doctorID)
		return nil
	})
	g.Wait()

	for _, e := range []error{profileErr, apptErr, reportErr} {
		if gateway.IsUnauthorized(e) {
			return nil, e
		}
	}
	if profileErr != nil {
		log.Warn().Err(profileErr).Str("doctorId", doctorID.String()).Msg("doctor profile fetch failed")
		dash.Profile.Error = gateway.MessageOf(profileErr)
	}
	if apptErr != nil {
		log.Warn().Err(apptErr).Str("doctorId", doctorID.String()).Msg("doctor appointments fetch failed")
		dash.Appointments.Error = gateway.MessageOf(apptErr)
	}
	if reportErr != nil {
		log.Warn().Err(reportErr).Str("doctorId", doctorID.String()).Msg("doctor reports fetch failed")
		dash.Reports.Error = gateway.MessageOf(reportErr)
	}
	if dash.Appointments.Data == nil {
		dash.Appointments.Data = []entity.Appointment{}
	}
	if dash.Reports.Data == nil {
		dash.Reports.Data = []entity.Report{}
	}
	dash.Pending = pending(dash.Appointments.Data)
	return dash, nil
}

// findAppointment looks the appointment up in the doctor's own list, so a
// doctor can only complete appointments assigned to them.
func (s *Service) findAppointment(ctx context.Context, doctorID, appointmentID entity.ID) (entity.Appointment, error) {
	appts, err := s.backend.DoctorAppointments(ctx, doctorID)
	if err != nil {
		return entity.Appointment{}, fmt.Errorf("failed to list appointments: %w", err)
	}
	for _, a := range appts {
		if a.ID == appointmentID {
			return a, nil
		}
	}
	return entity.Appointment{}, fmt.Errorf("%w: %d", ErrAppointmentNotFound, appointmentID)
}

// CompleteConsultation files a report for the appointment and marks it
// Completed. The payload is built first; a missing patient id fails before
// any request. An upload failure stops the flow. A status failure after a
// successful upload leaves the report filed and is returned as a partial
// StepError.
func (s *Service) CompleteConsultation(ctx context.Context, doctorID, appointmentID entity.ID, form shape.ReportForm) (*ConsultationResult, error) {
	appt, err := s.findAppointment(ctx, doctorID, appointmentID)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, doctorID, appt, form)
}

// Complete runs the consultation flow for an appointment already at hand.
func (s *Service) Complete(ctx context.Context, doctorID entity.ID, appt entity.Appointment, form shape.ReportForm) (*ConsultationResult, error) {
	if appt.Completed() {
		return nil, fmt.Errorf("%w: %d", ErrAlreadyCompleted, appt.ID)
	}
	payload, err := shape.Report(appt, doctorID, form, s.now())
	if err != nil {
		s.record(ctx, "invalid")
		return nil, err
	}

	result := &ConsultationResult{AppointmentID: appt.ID}

	if err := s.backend.UploadReport(ctx, payload); err != nil {
		stepErr := &StepError{Step: StepUploadReport, Err: err}
		result.FailedStep = stepErr.Step
		result.Error = gateway.MessageOf(err)
		s.record(ctx, "upload_failed")
		return result, stepErr
	}
	result.ReportFiled = true

	if err := s.backend.UpdateAppointmentStatus(ctx, appt.ID, shape.Status(entity.StatusCompleted)); err != nil {
		stepErr := &StepError{Step: StepUpdateStatus, Err: err}
		result.FailedStep = stepErr.Step
		result.Error = gateway.MessageOf(err)
		log.Error().Err(err).
			Str("appointmentId", appt.ID.String()).
			Msg("report filed but appointment status update failed")
		s.record(ctx, "partial")
		s.publish(ctx, messaging.EventConsultationStatusUpdateFailed, appt, doctorID, payload.ReportType, result)
		return result, stepErr
	}
	result.StatusUpdated = true

	log.Info().Str("appointmentId", appt.ID.String()).Msg("consultation completed")
	s.record(ctx, "completed")
	s.publish(ctx, messaging.EventConsultationCompleted, appt, doctorID, payload.ReportType, result)
	return result, nil
}

func (s *Service) record(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordConsultation(ctx, outcome)
	}
}

func (s *Service) publish(ctx context.Context, key string, appt entity.Appointment, doctorID entity.ID, reportType string, result *ConsultationResult) {
	patientID, _ := appt.PatientID()
	event := messaging.ConsultationEvent{
		BaseEvent: messaging.NewBaseEvent(key),
		Data: messaging.ConsultationData{
			AppointmentID: int64(appt.ID),
			DoctorID:      int64(doctorID),
			PatientID:     int64(patientID),
			ReportType:    reportType,
			ReportFiled:   result.ReportFiled,
			StatusUpdated: result.StatusUpdated,
			Error:         result.Error,
		},
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Warn().Err(err).Str("event", key).Msg("failed to publish consultation event")
	}
}

// IsPartial reports whether err is a consultation that filed its report but
// could not update the appointment.
func IsPartial(err error) bool {
	var stepErr *StepError
	return errors.As(err, &stepErr) && stepErr.Partial()
}
