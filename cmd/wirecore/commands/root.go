package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wirecore/internal/app"
	"wirecore/internal/domain"
)

var (
	configPath string
	overrides  struct {
		home, backend, email, passphrase, sessionStore, logLevel string
	}
	appCtx *app.Wire
)

var errNotLoggedIn = errors.New("not logged in, run `wirecore login` first")

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "wirecore",
		Short:         "Wire-style client core: login, prekeys and encrypted message fan-out",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Load(configPath)
			if err != nil {
				return err
			}
			applyOverrides(cmd, &cfg)
			if err := app.SetupLogging(cfg.Log, nil); err != nil {
				return err
			}
			if err := cfg.Prepare(); err != nil {
				return err
			}
			appCtx, err = app.NewWire(cfg, nil)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", os.Getenv("WIRECORE_CONFIG"), "path to a YAML config file")
	pf.StringVar(&overrides.home, "home", "", "config dir (default ~/.wirecore)")
	pf.StringVar(&overrides.backend, "backend", "", "backend base URL (e.g. http://127.0.0.1:8080)")
	pf.StringVar(&overrides.email, "email", "", "account email")
	pf.StringVarP(&overrides.passphrase, "passphrase", "p", "", "passphrase to protect keys")
	pf.StringVar(&overrides.sessionStore, "session-store", "", "session state store: file or redis")
	pf.StringVar(&overrides.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(loginCmd(), logoutCmd(), sendCmd(), preKeysCmd(), fingerprintCmd(), listenCmd())
	root.SetUsageTemplate(root.UsageTemplate() + "\nEnvironment:\n" + app.Usage())
	return root
}

func applyOverrides(cmd *cobra.Command, cfg *app.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("home", &cfg.Home, overrides.home)
	set("backend", &cfg.BackendURL, overrides.backend)
	set("email", &cfg.Email, overrides.email)
	set("passphrase", &cfg.Passphrase, overrides.passphrase)
	set("session-store", &cfg.SessionStore, overrides.sessionStore)
	set("log-level", &cfg.Log.Level, overrides.logLevel)
}

// readySession loads the stored session and fails unless it is logged in.
func readySession() (*domain.Session, error) {
	s, err := appCtx.LoadSession()
	if err != nil {
		return nil, err
	}
	if !s.Ready() {
		return nil, errNotLoggedIn
	}
	return s, nil
}

func logger(cmd *cobra.Command) *logrus.Entry {
	return logrus.WithField("command", cmd.Name())
}
