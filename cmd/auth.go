package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/spotdash/internal/server"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/urfave/cli/v3"
)

const authTimeout = 2 * time.Minute

// Auth performs the OAuth2 authorization code flow and stores the token.
//
// Starts a local HTTP server on the redirect URI, opens the browser for user authorization and exchanges the code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	creds, svc, err := r.service()
	if err != nil {
		return err
	}

	tokens, err := r.tokenStore()
	if err != nil {
		return err
	}

	result, err := r.doOAuth(ctx, creds, svc)
	if err != nil {
		return err
	}

	if err := services.SaveToken(tokens, result.Token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", r.config.Database.Path)
	r.writePlain("You can now use: spotdash report, spotdash tui or spotdash serve\n")
	return nil
}

// Logout deletes the stored token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	tokens, err := r.tokenStore()
	if err != nil {
		return err
	}

	if err := tokens.Delete(services.ServiceName); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	r.logger.Info("token deleted", "service", services.ServiceName)
	return r.writePlain("✓ Logged out of Spotify\n")
}

// doOAuth waits up to two minutes for a single callback on the redirect URI's host and path.
func (r *Runner) doOAuth(ctx context.Context, creds shared.Credentials, svc services.OAuthService) (*server.OAuthResult, error) {
	addr, err := creds.ListenAddr()
	if err != nil {
		return nil, err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := svc.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(svc, state, creds.CallbackPath())
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", addr)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.browser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return &result, nil
}
