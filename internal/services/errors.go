package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// classifyError maps SDK and transport errors onto the shared sentinel errors.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode == "invalid_client" {
			return fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, op, err)
		}
		return fmt.Errorf("%w: %s: %w", shared.ErrTokenExpired, op, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", shared.ErrTimeout, op, err)
	}

	if shared.IsAuthError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch statusOf(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s: %w", shared.ErrTokenExpired, op, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, op, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s: %w", shared.ErrRateLimited, op, err)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s: %w", shared.ErrServiceUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, op, err)
}

// statusOf extracts the HTTP status from an SDK error, or 0.
func statusOf(err error) int {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status
	}
	return 0
}
