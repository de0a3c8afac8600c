package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("api_key", "API key is required")

	if err.Error() != "API key is required" {
		t.Errorf("Error() = %s, want %s", err.Error(), "API key is required")
	}

	if !errors.Is(err, ErrValidation) {
		t.Error("Expected error to match ErrValidation")
	}

	if errors.Is(err, ErrNetwork) {
		t.Error("Expected error not to match ErrNetwork")
	}

	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("Expected wrapped error to be a validation error")
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", 401},
		{"forbidden", 403},
		{"not found", 404},
		{"server error", 500},
		{"bad gateway", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.status, "https://example.test/runs/stream")

			want := fmt.Sprintf("HTTP error! status: %d", tt.status)
			if err.Error() != want {
				t.Errorf("Error() = %s, want %s", err.Error(), want)
			}

			if !strings.Contains(err.Error(), fmt.Sprint(tt.status)) {
				t.Errorf("Error() = %s, should contain status code", err.Error())
			}

			if GetHTTPStatus(err) != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", GetHTTPStatus(err), tt.status)
			}

			if !IsAPIError(err) {
				t.Error("Expected IsAPIError to be true")
			}
		})
	}
}

func TestAPIErrorWithBodyTruncates(t *testing.T) {
	body := strings.Repeat("x", MaxErrorBodySize+100)
	err := NewAPIErrorWithBody(500, "endpoint", body)

	if len(err.Body) != MaxErrorBodySize {
		t.Errorf("Body length = %d, want %d", len(err.Body), MaxErrorBodySize)
	}

	if GetResponseBody(err) != err.Body {
		t.Error("GetResponseBody should return the stored body")
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(NewAPIError(401, "e")) {
		t.Error("401 should be an auth error")
	}
	if !IsAuthError(NewAPIError(403, "e")) {
		t.Error("403 should be an auth error")
	}
	if IsAuthError(NewAPIError(500, "e")) {
		t.Error("500 should not be an auth error")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("plain error should not be an auth error")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("send request", "https://example.test", cause)

	expected := "network error during send request: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}

	if !IsNetworkError(err) {
		t.Error("Expected IsNetworkError to be true")
	}

	if GetEndpoint(err) != "https://example.test" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
	}

	noCause := NewNetworkError("read stream", nil)
	if noCause.Error() != "network error during read stream" {
		t.Errorf("Error() = %s", noCause.Error())
	}
}

func TestDecodeError(t *testing.T) {
	err := NewDecodeError(12, errors.New("invalid UTF-8"))

	if !strings.HasPrefix(err.Error(), "failed to decode response stream") {
		t.Errorf("Error() = %s", err.Error())
	}

	if !IsDecodeError(err) {
		t.Error("Expected IsDecodeError to be true")
	}

	if IsNetworkError(err) {
		t.Error("Decode error should not be a network error")
	}
}

func TestFromRecovered(t *testing.T) {
	cause := errors.New("boom")
	if got := FromRecovered(cause); got != cause {
		t.Errorf("FromRecovered(error) = %v, want %v", got, cause)
	}

	got := FromRecovered("not an error")
	if !errors.Is(got, ErrUnknown) {
		t.Errorf("FromRecovered(string) = %v, want unknown error", got)
	}
	if got.Error() != "Unknown error occurred" {
		t.Errorf("Error() = %s", got.Error())
	}

	if !errors.Is(FromRecovered(nil), ErrUnknown) {
		t.Error("FromRecovered(nil) should be an unknown error")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "Unknown error occurred"},
		{"empty message", errors.New(""), "Unknown error occurred"},
		{"regular", errors.New("dial tcp: timeout"), "dial tcp: timeout"},
		{"api", NewAPIError(500, "e"), "HTTP error! status: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
