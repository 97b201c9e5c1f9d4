package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotdash/internal/server"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/urfave/cli/v3"
)

// Serve runs the web dashboard until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	creds, _, err := r.service()
	if err != nil {
		return err
	}

	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}

	tokens, err := r.tokenStore()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:      r.config,
		Credentials: creds,
		Tokens:      tokens,
		NewService:  func() (services.OAuthService, error) { return r.newService(creds) },
		Logger:      r.logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
