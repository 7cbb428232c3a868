package resource

import (
	"errors"
	"fmt"
	"net/http"
)

const defaultFailureMessage = "API request failed"

// ErrMissingData is returned when the backend reports success but the
// envelope carries no data. The message matches what the backend clients
// have always shown to users.
var ErrMissingData = errors.New("No data in response") //nolint:staticcheck

// ErrAPI matches every *APIError through errors.Is.
var ErrAPI = errors.New("api request failed")

// ErrTransport matches every *TransportError through errors.Is.
var ErrTransport = errors.New("transport failure")

// APIError is returned when an envelope reports success=false.
type APIError struct {
	Op         string
	Message    string
	StatusCode int
	Errors     map[string]string
}

// Error returns the backend's message unchanged so it can be shown to users.
func (e *APIError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrAPI) hold for any *APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// TransportError is returned by a Transport for network failures, timeouts
// and non-2xx responses. StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) hold for any *TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *TransportError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Kind classifies an error returned by a Service.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindAPI
	KindMissingData
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindMissingData:
		return "missing_data"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) Kind {
	var apiErr *APIError
	var transportErr *TransportError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingData):
		return KindMissingData
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// IsNotFound reports whether err means the resource does not exist, either as
// a 404 response or as a failed envelope carrying statusCode 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == http.StatusNotFound
	}
	return false
}
