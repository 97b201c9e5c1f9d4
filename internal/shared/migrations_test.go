package shared

import (
	"database/sql"
	"errors"
	"testing"
)

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file      string
		version   int
		name      string
		direction string
		ok        bool
	}{
		{"0000_create_tokens_up.sql", 0, "create_tokens", "up", true},
		{"0001_add_token_scope_down.sql", 1, "add_token_scope", "down", true},
		{"0002_missing_direction.sql", 0, "", "", false},
		{"notes_up.txt", 0, "", "", false},
		{"abcd_bad_version_up.sql", 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, direction, ok := parseMigrationName(tt.file)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if version != tt.version || name != tt.name || direction != tt.direction {
				t.Errorf("got (%d, %q, %q), want (%d, %q, %q)", version, name, direction, tt.version, tt.name, tt.direction)
			}
		})
	}
}

func TestRemoveComments(t *testing.T) {
	got := removeComments("-- heading\nCREATE TABLE x (id INT); -- trailing\n\n")
	if got != "CREATE TABLE x (id INT);" {
		t.Errorf("removeComments() = %q", got)
	}
}

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	t.Run("embedded files are ordered and paired", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}
		if len(migrations) < 2 {
			t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
		}

		for i, m := range migrations {
			if i > 0 && m.Version <= migrations[i-1].Version {
				t.Errorf("version %d follows %d", m.Version, migrations[i-1].Version)
			}
			if m.Name == "" || m.Up == "" || m.Down == "" {
				t.Errorf("migration %d is incomplete: %+v", m.Version, m)
			}
		}
	})

	t.Run("new database reaches the latest version", func(t *testing.T) {
		db := openMemory(t)
		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("createMigrationsTable() error = %v", err)
		}
		if version, _ := SchemaVersion(db); version != -1 {
			t.Errorf("SchemaVersion() before migrating = %d, want -1", version)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		migrations, _ := loadMigrations()
		latest := migrations[len(migrations)-1].Version
		if version, _ := SchemaVersion(db); version != latest {
			t.Errorf("SchemaVersion() = %d, want %d", version, latest)
		}
		if _, err := db.Exec("SELECT id, service, access_token, scope FROM tokens LIMIT 1"); err != nil {
			t.Errorf("tokens table should exist: %v", err)
		}
	})

	t.Run("rolling back every migration", func(t *testing.T) {
		db := openMemory(t)
		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations() error = %v", err)
		}

		migrations, _ := loadMigrations()
		for range migrations {
			if err := RollbackMigration(db); err != nil {
				t.Fatalf("RollbackMigration() error = %v", err)
			}
		}
		if _, err := db.Exec("SELECT 1 FROM tokens"); err == nil {
			t.Error("tokens table should be dropped")
		}
		if err := RollbackMigration(db); !errors.Is(err, ErrNoMigrations) {
			t.Errorf("RollbackMigration() error = %v, want ErrNoMigrations", err)
		}
	})

	t.Run("apply then roll back the scope column", func(t *testing.T) {
		db := openMemory(t)
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		version, err := SchemaVersion(db)
		if err != nil {
			t.Fatalf("SchemaVersion() error = %v", err)
		}
		if version != 1 {
			t.Errorf("SchemaVersion() = %d, want 1", version)
		}
		if _, err := db.Exec("SELECT scope FROM tokens LIMIT 1"); err != nil {
			t.Errorf("tokens.scope should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}
		if version, _ := SchemaVersion(db); version != 0 {
			t.Errorf("SchemaVersion() after rollback = %d, want 0", version)
		}
		if _, err := db.Exec("SELECT scope FROM tokens LIMIT 1"); err == nil {
			t.Error("tokens.scope should be dropped after rollback")
		}
		if _, err := db.Exec("SELECT access_token FROM tokens LIMIT 1"); err != nil {
			t.Errorf("tokens table should survive one rollback: %v", err)
		}
	})

	t.Run("rerunning is a no-op", func(t *testing.T) {
		db := openMemory(t)
		for range 2 {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("RunMigrations() error = %v", err)
			}
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d applied migrations, got %d", len(migrations), count)
		}
	})

	t.Run("rollback on empty database", func(t *testing.T) {
		db := openMemory(t)
		if err := RollbackMigration(db); !errors.Is(err, ErrNoMigrations) {
			t.Errorf("RollbackMigration() error = %v, want ErrNoMigrations", err)
		}
	})
}
