package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Kind classifies a connector failure.
type Kind int

const (
	// KindUnavailable means the connector was never initialized or the backend
	// could not be listed.
	KindUnavailable Kind = iota

	// KindConnectionFailed is a transport-level connect failure.
	KindConnectionFailed

	// KindTimeout means the call exceeded its timeout budget.
	KindTimeout

	// KindBackendHTTP means the backend answered with a non-2xx status.
	KindBackendHTTP

	// KindMalformedResponse means the backend body did not match the expected shape.
	KindMalformedResponse

	// KindCanceled means the caller abandoned the call before it completed.
	KindCanceled
)

// String returns the tag reported to gateway clients in the "type" field.
func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "connector_unavailable"
	case KindConnectionFailed:
		return "connection_failed"
	case KindTimeout:
		return "timeout"
	case KindBackendHTTP:
		return "backend_http_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ErrUnavailable matches any KindUnavailable *Error via errors.Is.
var ErrUnavailable = errors.New("connector unavailable")

// Error is the single error type returned by connectors.
type Error struct {
	// Kind is the taxonomy bucket of the failure
	Kind Kind

	// Op is the connector operation ("list_models", "generate", "chat")
	Op string

	// BaseURL is the backend the call was made against
	BaseURL string

	// StatusCode is the backend HTTP status (KindBackendHTTP only)
	StatusCode int

	// Body is the backend response text (KindBackendHTTP only)
	Body string

	// Timeout is the configured budget (KindTimeout only)
	Timeout time.Duration

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnavailable:
		if e.Cause != nil {
			return fmt.Sprintf("cannot connect to ollama at %s, is it running? (%v)", e.BaseURL, e.Cause)
		}
		return fmt.Sprintf("cannot connect to ollama at %s, is it running?", e.BaseURL)
	case KindConnectionFailed:
		return fmt.Sprintf("cannot connect to ollama at %s, is the service running?", e.BaseURL)
	case KindTimeout:
		return fmt.Sprintf("ollama request timed out (>%s)", e.Timeout)
	case KindBackendHTTP:
		return fmt.Sprintf("ollama api error: %d - %s", e.StatusCode, e.Body)
	case KindCanceled:
		return fmt.Sprintf("ollama %s request canceled", e.Op)
	default:
		return fmt.Sprintf("error communicating with ollama: %v", e.Cause)
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports KindUnavailable errors as ErrUnavailable.
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable && e.Kind == KindUnavailable
}

// KindOf returns the Kind of the outermost *Error in err's chain.
// Errors that did not come from a connector report KindMalformedResponse,
// the generic communication failure bucket.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindMalformedResponse
}

// Classify maps a transport error from an outbound call into the taxonomy.
// budget is the timeout the call ran under.
func Classify(op, baseURL string, budget time.Duration, err error) *Error {
	e := &Error{Op: op, BaseURL: baseURL, Cause: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.Kind = KindTimeout
		e.Timeout = budget
	case errors.As(err, &netErr) && netErr.Timeout():
		e.Kind = KindTimeout
		e.Timeout = budget
	case errors.Is(err, context.Canceled):
		e.Kind = KindCanceled
	default:
		e.Kind = KindConnectionFailed
	}

	return e
}

// NewUnavailableError wraps err as a KindUnavailable error for baseURL.
// If err is already a connector error it is kept as the cause so its kind
// stays visible in logs.
func NewUnavailableError(op, baseURL string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, BaseURL: baseURL, Cause: err}
}
