// Credentials are read from the process environment, optionally seeded from a .env file.
package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for the Spotify application credentials.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvRedirectURI  = "REDIRECT_URI"
)

// Credentials holds the Spotify application credentials. Read once at startup and never mutated.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// LookupFunc matches the signature of [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from the .env file at path into the environment.
//
// A missing file is not an error. Variables already set in the environment take precedence.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// LoadCredentials reads CLIENT_ID, CLIENT_SECRET and REDIRECT_URI using lookup (defaults to [os.LookupEnv]).
//
// Every variable is required. Absent, empty and whitespace-only values are reported together
// in a single error wrapping [ErrMissingCredentials].
func LoadCredentials(lookup LookupFunc) (Credentials, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	creds := Credentials{
		ClientID:     get(EnvClientID),
		ClientSecret: get(EnvClientSecret),
		RedirectURI:  get(EnvRedirectURI),
	}

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if creds.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if creds.RedirectURI == "" {
		missing = append(missing, EnvRedirectURI)
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: please make sure %s are set in the environment or .env file",
			ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if _, err := creds.RedirectURL(); err != nil {
		return Credentials{}, err
	}

	return creds, nil
}

// RedirectURL parses RedirectURI, which must be an absolute http(s) URL.
func (c Credentials) RedirectURL() (*url.URL, error) {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvRedirectURI, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidConfig, EnvRedirectURI, c.RedirectURI)
	}
	return u, nil
}

// ListenAddr returns the host:port the redirect URI points at, using the scheme's default port when none is given.
func (c Credentials) ListenAddr() (string, error) {
	u, err := c.RedirectURL()
	if err != nil {
		return "", err
	}
	if port := u.Port(); port != "" {
		return u.Host, nil
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443"), nil
	}
	return net.JoinHostPort(u.Hostname(), "80"), nil
}

// CallbackPath returns the path component of the redirect URI, defaulting to "/callback".
func (c Credentials) CallbackPath() string {
	u, err := c.RedirectURL()
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/callback"
	}
	return u.Path
}
