// Package repositories implements SQLite persistence for OAuth tokens.
//
// [TokenRepository] stores at most one token per service and upserts on save, so a refreshed
// access token replaces the previous one while keeping the refresh token when the provider omits it.
// Dashboard data is never persisted: every render is recomputed from the API.
package repositories
