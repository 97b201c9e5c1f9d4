// Spotify Web API implementation of [Catalog]
package services

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	// ServiceName identifies Spotify tokens in the token store.
	ServiceName = "spotify"

	defaultTimeout = 30 * time.Second

	maxTopTracks       = 50
	maxFeatureIDs      = 100
	maxTrackIDs        = 50
	maxSeeds           = 5
	maxRecommendations = 100
)

// TimeRanges lists the accepted top-tracks time ranges.
var TimeRanges = []string{"short_term", "medium_term", "long_term"}

// SpotifyService implements [Catalog] and [OAuthService] on top of the zmb3/spotify SDK.
//
// A service is cheap to construct and is meant to be created per render: it holds the token of a single session.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	client         *spotify.Client
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	onTokenRefresh func(*oauth2.Token)
}

// Option configures a [SpotifyService].
type Option func(*SpotifyService)

// WithBaseURL overrides the Web API base URL.
func WithBaseURL(u string) Option {
	return func(s *SpotifyService) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/") + "/"
		}
	}
}

// WithHTTPClient sets the client used for token and API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout of API calls.
func WithTimeout(d time.Duration) Option {
	return func(s *SpotifyService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSpotifyService creates a Spotify service for the application credentials.
func NewSpotifyService(creds shared.Credentials, opts ...Option) (*SpotifyService, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required", shared.ErrMissingCredentials)
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       []string{spotifyauth.ScopeUserTopRead},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OAuthConfig returns the OAuth2 configuration.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the authorization URL for user consent.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrAuthFailed)
	}

	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange authorization code: %w", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// SetTokenRefreshCallback sets fn to be called with every new access token obtained during API calls.
// Call before [SpotifyService.Authenticate].
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate installs token. Expired tokens are refreshed on the first API call when a refresh token is present.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}
	if !token.Valid() && token.RefreshToken == "" {
		return fmt.Errorf("%w: access token expired at %s and no refresh token is stored", shared.ErrTokenExpired, token.Expiry.Format(time.RFC3339))
	}

	ctx = s.oauthContext(ctx)
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onTokenRefresh,
		last:     token.AccessToken,
		refresh:  token.RefreshToken != "",
	}

	httpClient := oauth2.NewClient(ctx, source)
	httpClient.Timeout = s.timeout

	var clientOpts []spotify.ClientOption
	if s.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(s.baseURL))
	}

	s.token = token
	s.client = spotify.New(httpClient, clientOpts...)
	return nil
}

// Authenticated reports whether a token is installed.
func (s *SpotifyService) Authenticated() bool {
	return s.client != nil
}

// oauthContext makes the oauth2 package use the configured HTTP client.
func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// TopTracks retrieves the user's top tracks.
func (s *SpotifyService) TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if limit < 1 || limit > maxTopTracks {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, maxTopTracks, limit)
	}
	if !slices.Contains(TimeRanges, timeRange) {
		return nil, fmt.Errorf("%w: unknown time range %q", shared.ErrInvalidArgument, timeRange)
	}

	page, err := s.client.CurrentUsersTopTracks(ctx, spotify.Limit(limit), spotify.Timerange(spotify.Range(timeRange)))
	if err != nil {
		return nil, classifyError("top tracks", err)
	}

	return lo.Map(page.Tracks, func(t spotify.FullTrack, _ int) models.Track {
		return convertFullTrack(t)
	}), nil
}

// AudioFeatures retrieves audio features for ids, preserving request order.
func (s *SpotifyService) AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if len(ids) == 0 || len(ids) > maxFeatureIDs {
		return nil, fmt.Errorf("%w: between 1 and %d ids required, got %d", shared.ErrInvalidArgument, maxFeatureIDs, len(ids))
	}

	features, err := s.client.GetAudioFeatures(ctx, toIDs(ids)...)
	if err != nil {
		return nil, classifyError("audio features", err)
	}

	return lo.Map(features, func(f *spotify.AudioFeatures, _ int) *models.AudioFeatures {
		return convertAudioFeatures(f)
	}), nil
}

// Recommendations retrieves tracks recommended from seed track ids.
func (s *SpotifyService) Recommendations(ctx context.Context, seedIDs []string, limit int) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if len(seedIDs) == 0 || len(seedIDs) > maxSeeds {
		return nil, fmt.Errorf("%w: between 1 and %d seeds required, got %d", shared.ErrInvalidArgument, maxSeeds, len(seedIDs))
	}
	if limit < 1 || limit > maxRecommendations {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, maxRecommendations, limit)
	}

	recs, err := s.client.GetRecommendations(ctx, spotify.Seeds{Tracks: toIDs(seedIDs)}, nil, spotify.Limit(limit))
	if err != nil {
		return nil, classifyError("recommendations", err)
	}

	return lo.Map(recs.Tracks, func(t spotify.SimpleTrack, _ int) models.Track {
		return convertSimpleTrack(t)
	}), nil
}

// Tracks retrieves full track details for ids.
func (s *SpotifyService) Tracks(ctx context.Context, ids []string) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if len(ids) == 0 || len(ids) > maxTrackIDs {
		return nil, fmt.Errorf("%w: between 1 and %d ids required, got %d", shared.ErrInvalidArgument, maxTrackIDs, len(ids))
	}

	tracks, err := s.client.GetTracks(ctx, toIDs(ids))
	if err != nil {
		return nil, classifyError("tracks", err)
	}

	result := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t == nil {
			continue
		}
		result = append(result, convertFullTrack(*t))
	}
	return result, nil
}

func toIDs(ids []string) []spotify.ID {
	return lo.Map(ids, func(id string, _ int) spotify.ID { return spotify.ID(id) })
}

func artistNames(artists []spotify.SimpleArtist) []string {
	return lo.Map(artists, func(a spotify.SimpleArtist, _ int) string { return a.Name })
}

func convertSimpleTrack(t spotify.SimpleTrack) models.Track {
	return models.Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: artistNames(t.Artists),
		URL:     t.ExternalURLs["spotify"],
	}
}

func convertFullTrack(t spotify.FullTrack) models.Track {
	track := convertSimpleTrack(t.SimpleTrack)
	track.Album = t.Album.Name
	return track
}

func convertAudioFeatures(f *spotify.AudioFeatures) *models.AudioFeatures {
	if f == nil {
		return nil
	}
	return &models.AudioFeatures{
		TrackID:          string(f.ID),
		Danceability:     widen(f.Danceability),
		Energy:           widen(f.Energy),
		Valence:          widen(f.Valence),
		Acousticness:     widen(f.Acousticness),
		Instrumentalness: widen(f.Instrumentalness),
		Liveness:         widen(f.Liveness),
		Speechiness:      widen(f.Speechiness),
		Tempo:            widen(f.Tempo),
		Loudness:         widen(f.Loudness),
		Key:              int(f.Key),
		Mode:             int(f.Mode),
		TimeSignature:    int(f.TimeSignature),
		DurationMS:       int(f.Duration),
	}
}

// widen converts a float32 to the float64 with the same shortest decimal form, so 0.8 stays 0.8.
func widen(v float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}
