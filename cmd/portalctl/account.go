package main

import (
	"github.com/spf13/cobra"

	"github.com/WailSalutem-Health-Care/care-portal/internal/account"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

func (c *cli) loginCmd() *cobra.Command {
	var req account.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.sessionContext()
			svc := account.NewService(c.backend(sc), messaging.NopPublisher{}, nil)
			resp, err := svc.Login(cmd.Context(), sc, req)
			if err != nil {
				return explain(err)
			}
			c.printf("%s\nrole: %s\nuser: %s\nnext: %s\n", resp.Message, resp.Role, resp.UserID, resp.Redirect)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Role, "role", "admin", "admin, doctor or patient")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.sessionContext().Clear(cmd.Context()); err != nil {
				return err
			}
			c.printf("Logged out\n")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := c.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			c.printf("role: %s\nuser: %s\ndashboard: %s\n", sess.Role, sess.UserID, sess.Role.DashboardPath())
			return nil
		},
	}
}

func (c *cli) signupCmd() *cobra.Command {
	var (
		role   string
		fields map[string]string
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Example: "  portalctl signup --role patient -f fullName='Pat Doe' -f email=pat@x.org " +
			"-f passwordHash='Str0ng!Pass'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := account.SignupRequest{"role": shape.Text(role)}
			for k, v := range fields {
				req[k] = shape.Text(v)
			}
			svc := account.NewService(c.backend(c.sessionContext()), messaging.NopPublisher{}, nil)
			resp, err := svc.Signup(cmd.Context(), req)
			if err != nil {
				return explain(err)
			}
			c.printf("%s\nnext: %s\n", resp.Message, resp.Redirect)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "admin", "admin, doctor or patient")
	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "form field as key=value (repeatable)")
	return cmd
}
