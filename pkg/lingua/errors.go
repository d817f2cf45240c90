package lingua

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies request failures.
type ErrorKind int

const (
	// KindUnknown is the fallback for failures that fit no other kind.
	KindUnknown ErrorKind = iota
	// KindAuthenticationRequired means an authenticated call had no usable token.
	KindAuthenticationRequired
	// KindTimeout means the request deadline elapsed.
	KindTimeout
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindTransport means the call could not complete (DNS, refused, reset, cancelled).
	KindTransport
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication_required"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *RequestError of the same kind.
// Static errors for err113 compliance.
var (
	ErrAuthenticationRequired = errors.New("authentication required but no token available")
	ErrTimeout                = errors.New("request timed out")
	ErrHTTP                   = errors.New("HTTP error response")
	ErrTransport              = errors.New("request failed")
	ErrUnknown                = errors.New("unknown error during request")
)

// Causes of an authentication failure, wrapped inside the *RequestError.
var (
	ErrNoTokenProvider = errors.New("no token provider configured")
	ErrEmptyToken      = errors.New("token provider returned no token")
)

// RequestError is returned by every failed request.
type RequestError struct {
	Kind   ErrorKind
	Method string
	URL    string
	// StatusCode is set for KindHTTP, zero otherwise.
	StatusCode int
	// Body is the response body text for KindHTTP.
	Body string
	// Timeout is the deadline that elapsed for KindTimeout.
	Timeout time.Duration
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch e.Kind {
	case KindAuthenticationRequired:
		if e.Err != nil && !errors.Is(e.Err, ErrNoTokenProvider) && !errors.Is(e.Err, ErrEmptyToken) {
			return fmt.Sprintf("%s: %v", ErrAuthenticationRequired, e.Err)
		}

		return ErrAuthenticationRequired.Error()
	case KindTimeout:
		return fmt.Sprintf("request timed out after %d ms", e.Timeout.Milliseconds())
	case KindHTTP:
		detail := strings.TrimSpace(e.Body)
		if detail == "" {
			detail = http.StatusText(e.StatusCode)
		}

		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, detail)
	case KindTransport:
		if e.Err == nil {
			return ErrTransport.Error()
		}

		return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
	default:
		if e.Err == nil {
			return ErrUnknown.Error()
		}

		return fmt.Sprintf("%s: %v", ErrUnknown, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrAuthenticationRequired:
		return e.Kind == KindAuthenticationRequired
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrHTTP:
		return e.Kind == KindHTTP
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrUnknown:
		return e.Kind == KindUnknown
	}

	return false
}

// ServerMessage extracts a human readable message from a JSON error body
// ({"message": ...}, {"error": ...} or {"detail": ...}). It returns "" when
// the body carries none.
func (e *RequestError) ServerMessage() string {
	if e.Body == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}

	if json.Unmarshal([]byte(e.Body), &payload) != nil {
		return ""
	}

	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Detail != "":
		return payload.Detail
	default:
		return payload.Error
	}
}

// UserMessage returns a message suitable for showing to an end user.
func (e *RequestError) UserMessage() string {
	switch e.Kind {
	case KindAuthenticationRequired:
		return "Please sign in to continue."
	case KindTimeout:
		return "The server took too long to respond. Please try again."
	case KindTransport:
		return "Unable to connect. Please check your internet connection and try again."
	case KindHTTP:
		return httpUserMessage(e)
	default:
		return "An error occurred. Please try again later."
	}
}

func httpUserMessage(e *RequestError) string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "The requested item could not be found."
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if msg := e.ServerMessage(); msg != "" {
			return msg
		}

		return "Invalid request. Please check your input and try again."
	case http.StatusTooManyRequests:
		return "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "An error occurred. Please try again."
	}
}

// AsRequestError returns the *RequestError in err's chain, if any.
func AsRequestError(err error) (*RequestError, bool) {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr, true
	}

	return nil, false
}

// IsTimeout checks if the error is a request timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsAuthenticationRequired checks if the error is a missing-token failure.
func IsAuthenticationRequired(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired)
}

// IsNotFound checks if the error is an HTTP 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an HTTP 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	reqErr, ok := AsRequestError(err)
	if !ok || reqErr.Kind != KindHTTP {
		return 0
	}

	return reqErr.StatusCode
}
