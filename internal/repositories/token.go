package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
)

// TokenRepository persists OAuth tokens, one row per service.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save inserts the token or replaces the existing token for the same service.
//
// The row keeps its original ID and created_at on replacement.
func (r *TokenRepository) Save(token *models.StoredToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if token.ID() == "" {
		token.SetID(shared.GenerateID())
	}
	now := time.Now().UTC()
	token.SetUpdatedAt(now)

	query := `
		INSERT INTO tokens (id, service, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN tokens.refresh_token ELSE excluded.refresh_token END,
			token_type = excluded.token_type,
			scope = CASE WHEN excluded.scope = '' THEN tokens.scope ELSE excluded.scope END,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		token.ID(),
		token.Service(),
		token.AccessToken(),
		token.RefreshToken(),
		token.TokenType(),
		token.Scope(),
		nullTime(token.Expiry()),
		token.CreatedAt(),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// Get retrieves the token stored for service.
//
// Returns an error wrapping [shared.ErrTokenNotFound] when none is stored.
func (r *TokenRepository) Get(service string) (*models.StoredToken, error) {
	query := `
		SELECT id, service, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at
		FROM tokens
		WHERE service = ?
	`

	var (
		id, svc, access, refresh, tokenType, scope string
		expiry                                     sql.NullTime
		createdAt, updatedAt                       time.Time
	)

	err := r.db.QueryRow(query, service).Scan(&id, &svc, &access, &refresh, &tokenType, &scope, &expiry, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s", shared.ErrTokenNotFound, service)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan token: %w", err)
	}

	var exp time.Time
	if expiry.Valid {
		exp = expiry.Time
	}

	return models.RestoreStoredToken(id, svc, access, refresh, tokenType, scope, exp, createdAt, updatedAt), nil
}

// Delete removes the token stored for service. Deleting a missing token is not an error.
func (r *TokenRepository) Delete(service string) error {
	if _, err := r.db.Exec("DELETE FROM tokens WHERE service = ?", service); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
