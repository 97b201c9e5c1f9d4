package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
)

type fakeExchanger struct {
	token *oauth2.Token
	err   error
	code  string
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.code = code
	return f.token, f.err
}

func TestOAuthHandler(t *testing.T) {
	callback := func(h *OAuthHandler, query string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spotify/callback?"+query, nil))
		return rec
	}

	t.Run("routes", func(t *testing.T) {
		if got := NewOAuthHandler(&fakeExchanger{}, "s", "").Routes(); got[0] != "/callback" {
			t.Errorf("expected default /callback, got %v", got)
		}
		if got := NewOAuthHandler(&fakeExchanger{}, "s", "/spotify/callback").Routes(); got[0] != "/spotify/callback" {
			t.Errorf("expected /spotify/callback, got %v", got)
		}
	})

	t.Run("successful exchange", func(t *testing.T) {
		ex := &fakeExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "state-1", "/spotify/callback")

		rec := callback(h, "state=state-1&code=the-code")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ex.code != "the-code" {
			t.Errorf("expected code the-code, got %q", ex.code)
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "access" {
			t.Errorf("expected access token, got %q", result.Token.AccessToken)
		}
	})

	t.Run("state mismatch", func(t *testing.T) {
		ex := &fakeExchanger{}
		h := NewOAuthHandler(ex, "expected", "")

		rec := callback(h, "state=forged&code=c")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if ex.code != "" {
			t.Error("expected no exchange")
		}
		if result := <-h.Result(); !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("authorization denied", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s", "")

		rec := callback(h, "state=s&error=access_denied&error_description=user+said+no")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
		if want := "authentication failed: access_denied - user said no"; result.Error().Error() != want {
			t.Errorf("expected %q, got %q", want, result.Error().Error())
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{err: shared.ErrAuthFailed}, "s", "")

		rec := callback(h, "state=s&code=c")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-h.Result(); !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("single use", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{AccessToken: "a"}}, "s", "")

		callback(h, "state=s&code=c")
		rec := callback(h, "state=s&code=c")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected second callback to be rejected, got %d", rec.Code)
		}

		<-h.Result()
		if _, open := <-h.Result(); open {
			t.Error("expected result channel to be closed")
		}
	})
}
