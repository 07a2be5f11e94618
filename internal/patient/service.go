package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

type Service struct {
	backend   Backend
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

func NewService(backend Backend, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{backend: backend, publisher: publisher, metrics: metrics}
}

// Load fetches profile, appointments, reports and the doctor directory in
// parallel. The load is all or nothing: the first failure cancels the other
// reads and is returned.
func (s *Service) Load(ctx context.Context, patientID entity.ID) (*Dashboard, error) {
	dash := &Dashboard{Success: true}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.backend.GetPatient(gctx, patientID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		dash.Profile = p
		return nil
	})
	g.Go(func() error {
		appts, err := s.backend.PatientAppointments(gctx, patientID)
		if err != nil {
			return fmt.Errorf("failed to load appointments: %w", err)
		}
		dash.Appointments = appts
		return nil
	})
	g.Go(func() error {
		reports, err := s.backend.PatientReports(gctx, patientID)
		if err != nil {
			return fmt.Errorf("failed to load reports: %w", err)
		}
		dash.Reports = reports
		return nil
	})
	g.Go(func() error {
		doctors, err := s.backend.ListDoctors(gctx)
		if err != nil {
			return fmt.Errorf("failed to load doctors: %w", err)
		}
		dash.Doctors = doctors
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("patientId", patientID.String()).Msg("patient dashboard load failed")
		return nil, err
	}

	if dash.Appointments == nil {
		dash.Appointments = []entity.Appointment{}
	}
	if dash.Reports == nil {
		dash.Reports = []entity.Report{}
	}
	if dash.Doctors == nil {
		dash.Doctors = []entity.Doctor{}
	}
	dash.DoctorSelect = doctorOptions(dash.Doctors)
	return dash, nil
}

// Book validates the form, posts the booking and publishes
// appointment.booked. Nothing is sent when the form is invalid.
func (s *Service) Book(ctx context.Context, patientID entity.ID, form shape.BookingForm) error {
	booking, err := shape.Booking(patientID, form)
	if err != nil {
		s.record(ctx, "invalid")
		return err
	}
	if err := s.backend.BookAppointment(ctx, booking); err != nil {
		s.record(ctx, "failed")
		return fmt.Errorf("failed to book appointment: %w", err)
	}
	s.record(ctx, "booked")

	log.Info().
		Str("patientId", patientID.String()).
		Str("doctorId", booking.Doctor.DoctorID.String()).
		Msg("appointment booked")

	event := messaging.AppointmentBookedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentBooked),
		Data: messaging.AppointmentBookedData{
			PatientID:       int64(patientID),
			DoctorID:        int64(booking.Doctor.DoctorID),
			AppointmentDate: booking.AppointmentDate,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventAppointmentBooked, event); err != nil {
		log.Warn().Err(err).Msg("failed to publish appointment.booked")
	}
	return nil
}

func (s *Service) record(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBooking(ctx, outcome)
	}
}
