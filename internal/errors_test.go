package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestTransportError(t *testing.T) {
	originalErr := errors.New("connection refused")
	err := &TransportError{Endpoint: "https://api.example/models/x", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "transport error") {
		t.Errorf("TransportError.Error() should contain 'transport error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "api.example") {
		t.Errorf("TransportError.Error() should contain endpoint, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("TransportError.Unwrap() should return original error")
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Endpoint: "photos", StatusCode: http.StatusNotFound, Body: "no photos"}

	errorMsg := err.Error()
	for _, want := range []string{"status error", "404", "Not Found", "no photos"} {
		if !strings.Contains(errorMsg, want) {
			t.Errorf("StatusError.Error() should contain %q, got: %q", want, errorMsg)
		}
	}

	bare := &StatusError{Endpoint: "photos", StatusCode: http.StatusBadGateway}
	if strings.HasSuffix(bare.Error(), ": ") {
		t.Errorf("StatusError.Error() without body has trailing separator: %q", bare.Error())
	}
}

func TestStatusError_Kind(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusTooManyRequests, KindQuota},
		{http.StatusInternalServerError, KindUpstream},
		{http.StatusServiceUnavailable, KindUpstream},
		{http.StatusBadRequest, KindUpstream},
	}

	for _, tt := range tests {
		err := &StatusError{StatusCode: tt.status}
		if got := err.Kind(); got != tt.want {
			t.Errorf("StatusError{%d}.Kind() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestDecodeError(t *testing.T) {
	originalErr := errors.New("unexpected end of JSON input")
	err := &DecodeError{Endpoint: "chat", Err: originalErr}

	if !strings.Contains(err.Error(), "decode error") {
		t.Errorf("DecodeError.Error() should contain 'decode error', got: %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("DecodeError.Unwrap() should return original error")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Key: "picogen.api_key"}
	if !strings.Contains(err.Error(), "picogen.api_key") {
		t.Errorf("ConfigError.Error() should name the key, got: %q", err.Error())
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "transport", err: &TransportError{Err: errors.New("x")}, want: KindTransport},
		{name: "wrapped status", err: fmt.Errorf("call failed: %w", &StatusError{StatusCode: 401}), want: KindAuth},
		{name: "decode", err: &DecodeError{Err: errors.New("x")}, want: KindDecode},
		{name: "transport wrapping decode is decode", err: &TransportError{Err: &DecodeError{Err: errors.New("x")}}, want: KindDecode},
		{name: "other", err: errors.New("x"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
