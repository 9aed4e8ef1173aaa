package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeUpstreamUnavailable, cause, "webhook unreachable")

	if err.Code != ErrCodeUpstreamUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUpstreamUnavailable)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "test"), ErrCodeNetwork, false},
		{"wrapped error", Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeNetwork, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeSessionNotFound, "session %s not found", "abc")
	if GetCode(err) != ErrCodeSessionNotFound {
		t.Errorf("GetCode = %v", GetCode(err))
	}
	if UserMessage(err) != "session abc not found" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}

	plain := errors.New("plain")
	if GetCode(plain) != "" {
		t.Error("GetCode(plain) should be empty")
	}
	if UserMessage(plain) != "plain" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"duplicate slot", New(ErrCodeDuplicateSlot, "x"), http.StatusUnprocessableEntity},
		{"session", New(ErrCodeSessionNotFound, "x"), http.StatusNotFound},
		{"unavailable", New(ErrCodeUpstreamUnavailable, "x"), http.StatusServiceUnavailable},
		{"timeout", New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{"upstream passthrough", Upstream(418, "teapot"), 418},
		{"upstream without status", New(ErrCodeUpstream, "x"), http.StatusBadGateway},
		{"wrapped", Wrap(ErrCodeTimeout, errors.New("deadline"), "slow"), http.StatusGatewayTimeout},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
