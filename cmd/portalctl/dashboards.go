package main

import (
	"github.com/spf13/cobra"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/doctor"
	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/patient"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

func (c *cli) doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Doctor dashboard",
	}
	cmd.AddCommand(c.doctorShowCmd(), c.doctorCompleteCmd())
	return cmd
}

func (c *cli) printDoctorDashboard(dash *doctor.Dashboard) {
	if p := dash.Profile.Data; p != nil {
		c.printf("Dr. %s (%s)\n", p.FullName, p.Specialty)
	} else if dash.Profile.Error != "" {
		c.printf("profile unavailable: %s\n", dash.Profile.Error)
	}

	c.printf("\nPending consultations\n")
	if dash.Appointments.Error != "" {
		c.printf("appointments unavailable: %s\n", dash.Appointments.Error)
	}
	rows := make([][]string, 0, len(dash.Pending))
	for _, a := range dash.Pending {
		patientID := "-"
		if id, ok := a.PatientID(); ok {
			patientID = id.String()
		}
		rows = append(rows, []string{a.ID.String(), patientID, a.AppointmentDate, a.Reason, a.Status})
	}
	table(c.out, []string{"ID", "PATIENT", "DATE", "REASON", "STATUS"}, rows)

	c.printf("\nReports\n")
	if dash.Reports.Error != "" {
		c.printf("reports unavailable: %s\n", dash.Reports.Error)
	}
	printReports(c, dash.Reports.Data)
}

func printReports(c *cli, reports []entity.Report) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.ID.String(), r.Date, r.ReportType, r.Description})
	}
	table(c.out, []string{"ID", "DATE", "TYPE", "DESCRIPTION"}, rows)
}

func (c *cli) doctorShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show profile, pending consultations and reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, sess, err := c.requirePermission(cmd.Context(), auth.PermConsultationView)
			if err != nil {
				return err
			}
			dash, err := doctor.NewService(c.backend(sc), messaging.NopPublisher{}, nil).Load(cmd.Context(), sess.UserID)
			if err != nil {
				return explain(err)
			}
			c.printDoctorDashboard(dash)
			return nil
		},
	}
}

func (c *cli) doctorCompleteCmd() *cobra.Command {
	var form shape.ReportForm
	cmd := &cobra.Command{
		Use:   "complete <appointment-id>",
		Short: "File a report and mark the appointment Completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apptID, err := entity.ParseID(args[0])
			if err != nil {
				return err
			}
			sc, sess, err := c.requirePermission(cmd.Context(), auth.PermConsultationFinish)
			if err != nil {
				return err
			}
			svc := doctor.NewService(c.backend(sc), messaging.NopPublisher{}, nil)
			result, err := svc.CompleteConsultation(cmd.Context(), sess.UserID, apptID, form)
			if doctor.IsPartial(err) {
				c.printf("Report filed for appointment %s\n", apptID)
				return explain(err)
			}
			if err != nil {
				return explain(err)
			}
			c.printf("Consultation finalized! Appointment %s completed, report filed: %t\n", result.AppointmentID, result.ReportFiled)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.ReportType, "type", "", "report type")
	cmd.Flags().StringVar(&form.Description, "description", "", "report description")
	return cmd
}

func (c *cli) patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Patient dashboard",
	}
	cmd.AddCommand(c.patientShowCmd(), c.patientBookCmd())
	return cmd
}

func (c *cli) printPatientDashboard(dash *patient.Dashboard) {
	if p := dash.Profile; p != nil {
		c.printf("%s <%s>\n", p.FullName, p.Email)
	}

	c.printf("\nAppointments\n")
	rows := make([][]string, 0, len(dash.Appointments))
	for _, a := range dash.Appointments {
		rows = append(rows, []string{a.ID.String(), patient.DoctorName(a), a.AppointmentDate, a.Reason, a.Status})
	}
	table(c.out, []string{"ID", "DOCTOR", "DATE", "REASON", "STATUS"}, rows)

	c.printf("\nReports\n")
	printReports(c, dash.Reports)

	c.printf("\nDoctors\n")
	opts := make([][]string, 0, len(dash.DoctorSelect))
	for _, o := range dash.DoctorSelect {
		opts = append(opts, []string{o.Value, o.Label})
	}
	table(c.out, []string{"ID", "DOCTOR"}, opts)
}

func (c *cli) patientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show profile, appointments, reports and bookable doctors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, sess, err := c.requirePermission(cmd.Context(), auth.PermAppointmentsView)
			if err != nil {
				return err
			}
			dash, err := patient.NewService(c.backend(sc), messaging.NopPublisher{}, nil).Load(cmd.Context(), sess.UserID)
			if err != nil {
				return explain(err)
			}
			c.printPatientDashboard(dash)
			return nil
		},
	}
}

func (c *cli) patientBookCmd() *cobra.Command {
	var form shape.BookingForm
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, sess, err := c.requirePermission(cmd.Context(), auth.PermAppointmentsBook)
			if err != nil {
				return err
			}
			if err := patient.NewService(c.backend(sc), messaging.NopPublisher{}, nil).Book(cmd.Context(), sess.UserID, form); err != nil {
				return explain(err)
			}
			c.printf("Appointment Booked!\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.DoctorID, "doctor", "", "doctor id")
	cmd.Flags().StringVar(&form.Reason, "reason", "", "reason for the visit")
	cmd.Flags().StringVar(&form.AppointmentDate, "date", "", "appointment date and time, sent as given")
	return cmd
}
