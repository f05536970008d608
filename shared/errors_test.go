package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	withCause := NewNotFoundError(errors.New("record not found"), "Lesson not found")
	if withCause.Error() != "record not found" {
		t.Errorf("Error() = %q, want the underlying cause", withCause.Error())
	}

	withoutCause := NewConflictError(nil, "Promo code is already activated")
	if withoutCause.Error() != "Promo code is already activated" {
		t.Errorf("Error() = %q, want the message", withoutCause.Error())
	}
}

func TestGetAppError(t *testing.T) {
	appErr := NewForbiddenError(nil, "Admin access required")

	tests := []struct {
		name  string
		err   error
		found bool
	}{
		{"direct", appErr, true},
		{"wrapped once", fmt.Errorf("rejecting request: %w", appErr), true},
		{"wrapped twice", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", appErr)), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetAppError(tt.err)
			if ok != tt.found {
				t.Fatalf("GetAppError() found = %v, want %v", ok, tt.found)
			}
			if ok && got.StatusCode != http.StatusForbidden {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusForbidden)
			}
		})
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"bad request", NewBadRequestError(nil, "m"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError(nil, "m"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError(nil, "m"), http.StatusForbidden},
		{"not found", NewNotFoundError(nil, "m"), http.StatusNotFound},
		{"conflict", NewConflictError(nil, "m"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}
