// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
)

// MockCatalog is a test double for [services.Catalog] that records every call.
type MockCatalog struct {
	mu sync.Mutex

	Top      []models.Track
	Features []*models.AudioFeatures
	Recs     []models.Track
	Details  []models.Track

	TopErr      error
	FeaturesErr error
	RecsErr     error
	TracksErr   error

	calls      []string
	TopLimit   int
	TimeRange  string
	FeatureIDs []string
	SeedIDs    []string
	TrackIDs   []string
}

func (m *MockCatalog) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *MockCatalog) TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error) {
	m.record("TopTracks")
	m.mu.Lock()
	m.TopLimit, m.TimeRange = limit, timeRange
	m.mu.Unlock()
	if m.TopErr != nil {
		return nil, m.TopErr
	}
	return m.Top, nil
}

func (m *MockCatalog) AudioFeatures(ctx context.Context, ids []string) ([]*models.AudioFeatures, error) {
	m.record("AudioFeatures")
	m.mu.Lock()
	m.FeatureIDs = append([]string(nil), ids...)
	m.mu.Unlock()
	if m.FeaturesErr != nil {
		return nil, m.FeaturesErr
	}
	return m.Features, nil
}

func (m *MockCatalog) Recommendations(ctx context.Context, seedIDs []string, limit int) ([]models.Track, error) {
	m.record("Recommendations")
	m.mu.Lock()
	m.SeedIDs = append([]string(nil), seedIDs...)
	m.mu.Unlock()
	if m.RecsErr != nil {
		return nil, m.RecsErr
	}
	return m.Recs, nil
}

// Tracks returns Details, or the recommendations themselves when Details is nil.
func (m *MockCatalog) Tracks(ctx context.Context, ids []string) ([]models.Track, error) {
	m.record("Tracks")
	m.mu.Lock()
	m.TrackIDs = append([]string(nil), ids...)
	m.mu.Unlock()
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	if m.Details == nil {
		return m.Recs, nil
	}
	return m.Details, nil
}

// Calls returns the names of the methods called so far, in order.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times the named method was called.
func (m *MockCatalog) CallCount(name string) int {
	count := 0
	for _, c := range m.Calls() {
		if c == name {
			count++
		}
	}
	return count
}

// NewMockCatalog returns a catalog with n top tracks (T1..Tn), their features and n recommendations (R1..Rn).
func NewMockCatalog(n int) *MockCatalog {
	top := FixtureTracks("T", n)
	return &MockCatalog{
		Top:      top,
		Features: FixtureFeatures(top),
		Recs:     FixtureTracks("R", n),
	}
}

// FixtureTracks returns n tracks with ids prefix1..prefixN.
func FixtureTracks(prefix string, n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		tracks = append(tracks, models.Track{
			ID:      id,
			Name:    fmt.Sprintf("Track %s", id),
			Artists: []string{fmt.Sprintf("Artist %s", id), "Featured"},
			Album:   fmt.Sprintf("Album %s", id),
			URL:     "https://open.spotify.com/track/" + id,
		})
	}
	return tracks
}

// FixtureFeatures returns one feature entry per track, in the same order.
// Track i (1-based) gets danceability i/20, energy i/40 and valence 1-i/20.
func FixtureFeatures(tracks []models.Track) []*models.AudioFeatures {
	features := make([]*models.AudioFeatures, 0, len(tracks))
	for i, t := range tracks {
		n := float64(i + 1)
		features = append(features, &models.AudioFeatures{
			TrackID:      t.ID,
			Danceability: n / 20,
			Energy:       n / 40,
			Valence:      1 - n/20,
			Tempo:        100 + n,
			Loudness:     -n,
		})
	}
	return features
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MockTokenStore is an in-memory [services.TokenStore].
type MockTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]*models.StoredToken
	SaveErr error
	GetErr  error
	saves   int
}

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{tokens: map[string]*models.StoredToken{}}
}

func (s *MockTokenStore) Get(service string) (*models.StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	token, ok := s.tokens[service]
	if !ok {
		return nil, fmt.Errorf("%w for %s", shared.ErrTokenNotFound, service)
	}
	return token, nil
}

func (s *MockTokenStore) Save(token *models.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if err := token.Validate(); err != nil {
		return err
	}
	s.saves++
	s.tokens[token.Service()] = token
	return nil
}

func (s *MockTokenStore) Delete(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, service)
	return nil
}

// Saves returns how many tokens were saved.
func (s *MockTokenStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// MockOAuthService is a test double for [services.OAuthService] backed by a [MockCatalog].
type MockOAuthService struct {
	*MockCatalog

	ExchangeErr  error
	Token        *oauth2.Token // Returned by Exchange
	Installed    *oauth2.Token // Set by Authenticate
	OnRefresh    func(*oauth2.Token)
	ExchangeCode string
}

func (m *MockOAuthService) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + url.QueryEscape(state)
}

func (m *MockOAuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	m.ExchangeCode = code
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	return m.Token, nil
}

func (m *MockOAuthService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}
	m.Installed = token
	return nil
}

func (m *MockOAuthService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	m.OnRefresh = fn
}
