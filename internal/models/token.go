package models

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

var _ Model = (*StoredToken)(nil)

// StoredToken is an OAuth2 token persisted for a service.
type StoredToken struct {
	id           string
	service      string
	accessToken  string
	refreshToken string
	tokenType    string
	scope        string
	expiry       time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewStoredToken creates a [StoredToken] for service from an [oauth2.Token].
//
// The granted scope is read from the token's "scope" extra when present.
func NewStoredToken(service string, token *oauth2.Token) *StoredToken {
	now := time.Now().UTC()
	st := &StoredToken{
		service:   service,
		createdAt: now,
		updatedAt: now,
	}
	if token != nil {
		st.accessToken = token.AccessToken
		st.refreshToken = token.RefreshToken
		st.tokenType = token.TokenType
		st.expiry = token.Expiry
		if scope, ok := token.Extra("scope").(string); ok {
			st.scope = scope
		}
	}
	return st
}

// RestoreStoredToken rebuilds a [StoredToken] from persisted columns.
func RestoreStoredToken(id, service, access, refresh, tokenType, scope string, expiry, createdAt, updatedAt time.Time) *StoredToken {
	return &StoredToken{
		id:           id,
		service:      service,
		accessToken:  access,
		refreshToken: refresh,
		tokenType:    tokenType,
		scope:        scope,
		expiry:       expiry,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (t *StoredToken) ID() string           { return t.id }
func (t *StoredToken) CreatedAt() time.Time { return t.createdAt }
func (t *StoredToken) UpdatedAt() time.Time { return t.updatedAt }
func (t *StoredToken) Service() string      { return t.service }
func (t *StoredToken) AccessToken() string  { return t.accessToken }
func (t *StoredToken) RefreshToken() string { return t.refreshToken }
func (t *StoredToken) TokenType() string    { return t.tokenType }
func (t *StoredToken) Scope() string        { return t.scope }
func (t *StoredToken) Expiry() time.Time    { return t.expiry }

func (t *StoredToken) SetID(id string)           { t.id = id }
func (t *StoredToken) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }
func (t *StoredToken) SetCreatedAt(ts time.Time) { t.createdAt = ts }

// Validate requires a service name and an access token.
func (t *StoredToken) Validate() error {
	if t.service == "" {
		return fmt.Errorf("service is required")
	}
	if t.accessToken == "" {
		return fmt.Errorf("access token is required")
	}
	return nil
}

// OAuth2 converts the stored token back into an [oauth2.Token].
func (t *StoredToken) OAuth2() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.accessToken,
		RefreshToken: t.refreshToken,
		TokenType:    t.tokenType,
		Expiry:       t.expiry,
	}
	if t.scope != "" {
		token = token.WithExtra(map[string]any{"scope": t.scope})
	}
	return token
}
