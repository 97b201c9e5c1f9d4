package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
)

// TokenStore persists OAuth tokens by service name. The SQLite token repository implements it.
type TokenStore interface {
	Get(service string) (*models.StoredToken, error)
	Save(token *models.StoredToken) error
	Delete(service string) error
}

// OpenSession authenticates svc with the stored token and saves every refreshed token back to store.
//
// Returns an error wrapping [shared.ErrNotAuthenticated] when no token is stored.
func OpenSession(ctx context.Context, svc OAuthService, store TokenStore, logger *log.Logger) error {
	stored, err := store.Get(ServiceName)
	if err != nil {
		if errors.Is(err, shared.ErrTokenNotFound) {
			return fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
		}
		return fmt.Errorf("failed to load token: %w", err)
	}

	svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := store.Save(models.NewStoredToken(ServiceName, token)); err != nil {
			if logger != nil {
				logger.Error("failed to save refreshed token", "error", err)
			}
			return
		}
		if logger != nil {
			logger.Debug("saved refreshed token", "expiry", token.Expiry)
		}
	})

	return svc.Authenticate(ctx, stored.OAuth2())
}

// SaveToken stores a token obtained from the authorization flow.
func SaveToken(store TokenStore, token *oauth2.Token) error {
	if err := store.Save(models.NewStoredToken(ServiceName, token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}
