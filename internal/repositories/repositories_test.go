package repositories

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newToken(access, refresh string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
}

func TestTokenRepository(t *testing.T) {
	t.Run("Save and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTokenRepository(db)
		token := newToken("access", "refresh")
		stored := models.NewStoredToken("spotify", token)

		if err := repo.Save(stored); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		if stored.ID() == "" {
			t.Error("token ID should be set after save")
		}

		retrieved, err := repo.Get("spotify")
		if err != nil {
			t.Fatalf("failed to get token: %v", err)
		}

		if retrieved.ID() != stored.ID() {
			t.Errorf("expected ID %s, got %s", stored.ID(), retrieved.ID())
		}
		if retrieved.AccessToken() != "access" || retrieved.RefreshToken() != "refresh" {
			t.Errorf("unexpected token values: access=%s refresh=%s", retrieved.AccessToken(), retrieved.RefreshToken())
		}
		if !retrieved.Expiry().Equal(token.Expiry) {
			t.Errorf("expected expiry %v, got %v", token.Expiry, retrieved.Expiry())
		}
	})

	t.Run("Save upserts by service", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTokenRepository(db)
		first := models.NewStoredToken("spotify", newToken("old", "refresh"))
		if err := repo.Save(first); err != nil {
			t.Fatalf("failed to save first token: %v", err)
		}

		// Refresh responses may omit the refresh token.
		second := models.NewStoredToken("spotify", newToken("new", ""))
		if err := repo.Save(second); err != nil {
			t.Fatalf("failed to save second token: %v", err)
		}

		retrieved, err := repo.Get("spotify")
		if err != nil {
			t.Fatalf("failed to get token: %v", err)
		}

		if retrieved.AccessToken() != "new" {
			t.Errorf("expected access token to be replaced, got %s", retrieved.AccessToken())
		}
		if retrieved.RefreshToken() != "refresh" {
			t.Errorf("expected refresh token to be kept, got %q", retrieved.RefreshToken())
		}
		if retrieved.ID() != first.ID() {
			t.Errorf("expected original row ID %s, got %s", first.ID(), retrieved.ID())
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM tokens").Scan(&count); err != nil {
			t.Fatalf("failed to count tokens: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 token row, got %d", count)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewTokenRepository(db).Get("spotify")
		if !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTokenRepository(db)
		if err := repo.Save(models.NewStoredToken("spotify", newToken("access", "refresh"))); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		if err := repo.Delete("spotify"); err != nil {
			t.Fatalf("failed to delete token: %v", err)
		}

		if _, err := repo.Get("spotify"); !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected token to be gone, got %v", err)
		}

		if err := repo.Delete("spotify"); err != nil {
			t.Errorf("deleting a missing token should not fail, got %v", err)
		}
	})

	t.Run("Save invalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewTokenRepository(db).Save(models.NewStoredToken("spotify", nil)); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Save without expiry", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTokenRepository(db)
		if err := repo.Save(models.NewStoredToken("spotify", &oauth2.Token{AccessToken: "access"})); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		retrieved, err := repo.Get("spotify")
		if err != nil {
			t.Fatalf("failed to get token: %v", err)
		}
		if !retrieved.Expiry().IsZero() {
			t.Errorf("expected zero expiry, got %v", retrieved.Expiry())
		}
	})
}

func TestTokenRepositoryOnDisk(t *testing.T) {
	cfg := shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "spotdash.db")}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase() on a new file error = %v", err)
	}

	token := newToken("access", "refresh").WithExtra(map[string]any{"scope": "user-top-read"})
	stored := models.NewStoredToken("spotify", token)
	if err := NewTokenRepository(db).Save(stored); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}
	db.Close()

	db, err = shared.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("reopening database error = %v", err)
	}
	defer db.Close()

	retrieved, err := NewTokenRepository(db).Get("spotify")
	if err != nil {
		t.Fatalf("failed to get token after reopen: %v", err)
	}
	if retrieved.ID() != stored.ID() || retrieved.AccessToken() != "access" {
		t.Errorf("unexpected token after reopen: id=%s access=%s", retrieved.ID(), retrieved.AccessToken())
	}
	if retrieved.Scope() != "user-top-read" {
		t.Errorf("expected scope user-top-read, got %q", retrieved.Scope())
	}
}
