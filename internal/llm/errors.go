package llm

import (
	"fmt"
	"strings"
)

// Error is the unified error interface returned by the HTTP client.
type Error interface {
	error
	StatusCode() int
	Retryable() bool
}

type httpErrorBase struct {
	statusCode int
	message    string
	retryable  bool
}

func (e *httpErrorBase) Error() string {
	msg := strings.TrimSpace(e.message)
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("llm error (status=%d): %s", e.statusCode, msg)
}
func (e *httpErrorBase) StatusCode() int { return e.statusCode }
func (e *httpErrorBase) Retryable() bool { return e.retryable }

type InvalidRequestError struct{ httpErrorBase }
type AuthenticationError struct{ httpErrorBase }
type RateLimitError struct{ httpErrorBase }
type ServerError struct{ httpErrorBase }
type UnknownHTTPError struct{ httpErrorBase }

// ErrorFromHTTPStatus classifies a non-2xx response. The planner does not
// retry either way; Retryable is informational for callers that batch runs.
func ErrorFromHTTPStatus(statusCode int, message string) error {
	base := httpErrorBase{statusCode: statusCode, message: message}
	switch {
	case statusCode == 400 || statusCode == 404 || statusCode == 422:
		return &InvalidRequestError{base}
	case statusCode == 401 || statusCode == 403:
		return &AuthenticationError{base}
	case statusCode == 429:
		base.retryable = true
		return &RateLimitError{base}
	case statusCode >= 500:
		base.retryable = true
		return &ServerError{base}
	default:
		base.retryable = true
		return &UnknownHTTPError{base}
	}
}
