package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds reported by ErrorKind
const (
	KindTransport = "transport"
	KindAuth      = "auth"
	KindQuota     = "quota"
	KindUpstream  = "upstream"
	KindDecode    = "decode"
	KindUnknown   = "unknown"
)

// TransportError represents a failed round trip to an upstream endpoint
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s]: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError represents a non-success HTTP status from an upstream endpoint
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status error [%s]: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("status error [%s]: %d %s: %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Kind classifies the status into auth, quota or upstream
func (e *StatusError) Kind() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindQuota
	default:
		return KindUpstream
	}
}

// DecodeError represents a response body that could not be parsed
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s]: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigError represents a missing configuration value
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s is not set", e.Key)
}

// ErrorKind maps an error to one of the Kind* constants
func ErrorKind(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	var decodeErr *DecodeError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return statusErr.Kind()
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}
