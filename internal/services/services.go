package services

import (
	"context"

	"github.com/desertthunder/spotdash/internal/models"
	"golang.org/x/oauth2"
)

// Catalog is the read-only view of the music API consumed by the dashboard pipeline.
//
// Implementations must not retry. Every error wraps one of the shared sentinel errors so callers can use [errors.Is].
type Catalog interface {
	// TopTracks returns the current user's top tracks for timeRange, most played first.
	TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error)

	// AudioFeatures returns one entry per id, in request order.
	// A nil entry means the API had no features for that id.
	AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error)

	// Recommendations returns tracks recommended from at most five seed track ids.
	Recommendations(ctx context.Context, seedIDs []string, limit int) ([]models.Track, error)

	// Tracks returns full track details (album, artists, public URL) for ids.
	Tracks(ctx context.Context, ids []string) ([]models.Track, error)
}

// OAuthService is implemented by catalogs that authenticate with the authorization-code flow.
type OAuthService interface {
	Catalog

	// AuthURL returns the provider consent page URL carrying state.
	AuthURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Authenticate installs token for subsequent calls.
	Authenticate(ctx context.Context, token *oauth2.Token) error

	// SetTokenRefreshCallback registers fn to receive tokens refreshed during API calls.
	SetTokenRefreshCallback(fn func(*oauth2.Token))
}
