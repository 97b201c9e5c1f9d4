package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spotdash.db" {
			t.Errorf("expected database path ./spotdash.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Dashboard.TopLimit != 10 {
			t.Errorf("expected top limit 10, got %d", config.Dashboard.TopLimit)
		}

		if config.Dashboard.SeedLimit != 5 {
			t.Errorf("expected seed limit 5, got %d", config.Dashboard.SeedLimit)
		}

		if config.Dashboard.TimeRange != "short_term" {
			t.Errorf("expected time range short_term, got %s", config.Dashboard.TimeRange)
		}

		if len(config.Dashboard.Features) != 3 {
			t.Errorf("expected 3 charted features, got %v", config.Dashboard.Features)
		}

		if config.Spotify.Timeout.Duration != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.Spotify.Timeout)
		}

		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[dashboard]
top_limit = 20
time_range = "long_term"

[spotify]
api_url = "http://localhost:9090/v1/"
timeout = "5s"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Dashboard.TopLimit != 20 || config.Dashboard.TimeRange != "long_term" {
			t.Errorf("unexpected dashboard config: %+v", config.Dashboard)
		}

		if config.Dashboard.RecommendationLimit != 10 {
			t.Errorf("expected unset keys to keep defaults, got %d", config.Dashboard.RecommendationLimit)
		}

		if config.Spotify.Timeout.Duration != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.Spotify.Timeout)
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("LoadConfig() error = %v, want ErrMissingConfig", err)
		}
	})

	t.Run("LoadConfigOrDefault missing file", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected defaults, got %v", err)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Server.Port = 4242
		config.Dashboard.Features = []string{"energy"}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if loaded.Server.Port != 4242 {
			t.Errorf("expected port 4242, got %d", loaded.Server.Port)
		}
		if len(loaded.Dashboard.Features) != 1 || loaded.Dashboard.Features[0] != "energy" {
			t.Errorf("expected features [energy], got %v", loaded.Dashboard.Features)
		}
		if loaded.Spotify.Timeout.Duration != 30*time.Second {
			t.Errorf("expected timeout to survive round trip, got %v", loaded.Spotify.Timeout)
		}
	})
}
