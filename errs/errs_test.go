package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
)

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{"no rows", backend.ErrNoRows, http.StatusNotFound, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get task: %w", backend.ErrNoRows), http.StatusNotFound, ErrNotFound},
		{"rls", &backend.Error{Code: "42501", Message: "new row violates row-level security policy"}, http.StatusForbidden, ErrForbidden},
		{"unique", &backend.Error{Code: "23505", Message: "duplicate key"}, http.StatusConflict, ErrConflict},
		{"foreign key", &backend.Error{Code: "23503", Message: "violates foreign key"}, http.StatusBadRequest, ErrBadRequest},
		{"check", &backend.Error{Code: "23514", Message: "violates check"}, http.StatusBadRequest, ErrBadRequest},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, ErrDatabaseTimeout},
		{"connection", errors.New("failed to connect: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrDatabaseQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := NewDatabaseError("find", "task", tt.cause)
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if !errors.Is(apiErr, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", apiErr, tt.is)
			}
			if apiErr.Cause != tt.cause {
				t.Errorf("cause not preserved")
			}
		})
	}
}

func TestApiErrFullError(t *testing.T) {
	inner := NewBadRequestError("bad input")
	outer := NewInternalErrorWithCause("outer", inner)
	want := "outer: internal server error -> bad input: malformed request"
	if got := outer.GetFullError(); got != want {
		t.Errorf("GetFullError() = %q, want %q", got, want)
	}
}

func TestTokenError(t *testing.T) {
	err := NewTokenError(ErrExpiredToken, errors.New("token is expired"))
	if err.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", err.StatusCode)
	}
	if !IsUnauthorized(err) || !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected unauthorized + expired sentinels, got %v", err)
	}
}
