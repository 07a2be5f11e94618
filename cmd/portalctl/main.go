// Command portalctl drives the care portal screens from a terminal. The
// login is kept in a YAML session file between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/WailSalutem-Health-Care/care-portal/internal/auth"
	"github.com/WailSalutem-Health-Care/care-portal/internal/backend"
	"github.com/WailSalutem-Health-Care/care-portal/internal/gateway"
	"github.com/WailSalutem-Health-Care/care-portal/internal/logging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
)

// cliSessionID is the only key the CLI writes in its session file.
const cliSessionID = "portalctl"

var errNotLoggedIn = errors.New("not logged in; run `portalctl login` first")

type cli struct {
	v   *viper.Viper
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Hospital care portal client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), c.v.GetString("PORTAL_LOG_LEVEL"), "development")
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("backend", "http://localhost:9091", "hospital backend base URL")
	flags.String("session-file", defaultSessionFile(), "where the login is kept")
	flags.String("log-level", zerolog.LevelWarnValue, "log level")

	c.v.AutomaticEnv()
	c.v.BindPFlag("PORTAL_BACKEND_URL", flags.Lookup("backend"))
	c.v.BindPFlag("PORTAL_SESSION_FILE", flags.Lookup("session-file"))
	c.v.BindPFlag("PORTAL_LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.signupCmd(),
		c.adminCmd(),
		c.doctorCmd(),
		c.patientCmd(),
	)
	return root
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".careportal-session.yml"
	}
	return filepath.Join(home, ".careportal", "session.yml")
}

func (c *cli) sessionContext() *session.Context {
	return session.NewContext(session.NewFileStore(c.v.GetString("PORTAL_SESSION_FILE")), cliSessionID)
}

// backend returns a client that sends the token stored in sc.
func (c *cli) backend(sc *session.Context) *backend.Client {
	return backend.New(gateway.New(c.v.GetString("PORTAL_BACKEND_URL"), gateway.WithTokenSource(sc)))
}

// requireSession loads the stored login. Unlike the portal, a rejected token
// does not remove the file; `portalctl logout` does.
func (c *cli) requireSession(ctx context.Context) (*session.Context, *session.Session, error) {
	sc := c.sessionContext()
	sess, err := sc.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil, errNotLoggedIn
	}
	if err != nil {
		return nil, nil, err
	}
	return sc, sess, nil
}

// requirePermission loads the session and applies the same role guard as the
// portal routes.
func (c *cli) requirePermission(ctx context.Context, permission string) (*session.Context, *session.Session, error) {
	sc, sess, err := c.requireSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !auth.HasPermission(sess.Role, permission, auth.DefaultPermissions()) {
		return nil, nil, fmt.Errorf("a %s session cannot do this (needs %s)", sess.Role, permission)
	}
	return sc, sess, nil
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
