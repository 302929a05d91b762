package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wirecore/internal/devbackend"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr       string
		secret     string
		maxCookies int
		tokenTTL   time.Duration
		users      []string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:          "backend",
		Short:        "In-memory development backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			srv, err := devbackend.New(devbackend.Options{
				Secret:     []byte(secret),
				TokenTTL:   tokenTTL,
				MaxCookies: maxCookies,
			})
			if err != nil {
				return err
			}
			for _, u := range users {
				if err := seed(srv, u); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), addr, srv)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&secret, "secret", "", "token signing secret (random if empty)")
	f.IntVar(&maxCookies, "max-cookies", devbackend.DefaultMaxCookies, "login cookies per user before logins are rate limited")
	f.DurationVar(&tokenTTL, "token-ttl", devbackend.DefaultTokenTTL, "access token lifetime")
	f.StringArrayVar(&users, "user", nil, "seed a user as email:password:name (repeatable)")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func seed(srv *devbackend.Server, arg string) error {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("bad --user %q, want email:password[:name]", arg)
	}
	name := parts[0]
	if len(parts) == 3 {
		name = parts[2]
	}
	p, err := srv.Register(parts[0], parts[1], name)
	if err != nil {
		return fmt.Errorf("seed %s: %w", parts[0], err)
	}
	logrus.WithField("user", p.ID).Infof("Seeded %s.", p.Email)
	return nil
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	logrus.Infof("backend listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
