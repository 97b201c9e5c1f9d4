package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

func TestLoadCredentials(t *testing.T) {
	complete := map[string]string{
		EnvClientID:     "id",
		EnvClientSecret: "secret",
		EnvRedirectURI:  "http://127.0.0.1:3000/callback",
	}

	t.Run("all values present", func(t *testing.T) {
		creds, err := LoadCredentials(mapLookup(complete))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.ClientID != "id" || creds.ClientSecret != "secret" {
			t.Errorf("unexpected credentials: %+v", creds)
		}
		if creds.CallbackPath() != "/callback" {
			t.Errorf("expected callback path /callback, got %s", creds.CallbackPath())
		}
	})

	tt := []struct {
		name    string
		key     string
		value   *string
		missing string
	}{
		{name: "client id absent", key: EnvClientID, missing: EnvClientID},
		{name: "client secret empty", key: EnvClientSecret, value: ptr(""), missing: EnvClientSecret},
		{name: "redirect uri whitespace", key: EnvRedirectURI, value: ptr("   "), missing: EnvRedirectURI},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range complete {
				env[k] = v
			}
			if tc.value == nil {
				delete(env, tc.key)
			} else {
				env[tc.key] = *tc.value
			}

			_, err := LoadCredentials(mapLookup(env))
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.missing) {
				t.Errorf("expected error to name %s, got %v", tc.missing, err)
			}
		})
	}

	t.Run("names every missing variable", func(t *testing.T) {
		_, err := LoadCredentials(mapLookup(map[string]string{}))
		if !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		for _, key := range []string{EnvClientID, EnvClientSecret, EnvRedirectURI} {
			if !strings.Contains(err.Error(), key) {
				t.Errorf("expected error to mention %s, got %v", key, err)
			}
		}
	})

	t.Run("relative redirect uri", func(t *testing.T) {
		env := map[string]string{EnvClientID: "id", EnvClientSecret: "secret", EnvRedirectURI: "/callback"}
		_, err := LoadCredentials(mapLookup(env))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("callback path defaults when redirect has no path", func(t *testing.T) {
		creds := Credentials{RedirectURI: "http://localhost:3000"}
		if creds.CallbackPath() != "/callback" {
			t.Errorf("expected default callback path, got %s", creds.CallbackPath())
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("loads values without overriding environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "SPOTDASH_TEST_A=from_file\nSPOTDASH_TEST_B=from_file\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}

		t.Setenv("SPOTDASH_TEST_A", "from_env")
		t.Setenv("SPOTDASH_TEST_B", "")
		os.Unsetenv("SPOTDASH_TEST_B")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}

		if got := os.Getenv("SPOTDASH_TEST_A"); got != "from_env" {
			t.Errorf("expected environment to win, got %s", got)
		}
		if got := os.Getenv("SPOTDASH_TEST_B"); got != "from_file" {
			t.Errorf("expected value from file, got %s", got)
		}
	})
}

func ptr(s string) *string { return &s }

func TestListenAddr(t *testing.T) {
	tests := []struct {
		redirect string
		want     string
	}{
		{"http://localhost:3000/callback", "localhost:3000"},
		{"http://localhost/callback", "localhost:80"},
		{"https://dash.example.com/callback", "dash.example.com:443"},
		{"http://[::1]/callback", "[::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.redirect, func(t *testing.T) {
			got, err := Credentials{RedirectURI: tt.redirect}.ListenAddr()
			if err != nil {
				t.Fatalf("ListenAddr() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ListenAddr() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("invalid redirect", func(t *testing.T) {
		if _, err := (Credentials{RedirectURI: "/callback"}).ListenAddr(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
