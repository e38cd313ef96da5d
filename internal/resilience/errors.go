package resilience

import (
	"errors"
	"net"
	"slices"
	"strings"
	"syscall"
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	HTTPStatus() int
}

// TransientError marks an error as safe to retry regardless of its cause.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string   { return e.Err.Error() }
func (e *TransientError) Unwrap() error   { return e.Err }
func (e *TransientError) HTTPStatus() int { return e.StatusCode }

// NewTransientError wraps err as transient. statusCode may be zero.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// transientStatuses are the responses worth asking again: rate limiting and
// server-side failures.
var transientStatuses = []int{429, 500, 502, 503, 504}

// droppedConn are fragments of connection errors that net/http wraps as text.
var droppedConn = []string{
	"connection reset by peer",
	"broken pipe",
	"server closed idle connection",
	"transport connection broken",
}

// IsTransient reports whether err is worth retrying. Timeouts are not: a
// lookup that timed out counts as a miss and the run moves on.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() != 0 {
		return IsTransientHTTPStatus(sc.HTTPStatus())
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(droppedConn, func(p string) bool {
		return strings.Contains(msg, p)
	})
}

// IsTransientHTTPStatus reports whether a response with statusCode may
// succeed if repeated.
func IsTransientHTTPStatus(statusCode int) bool {
	return slices.Contains(transientStatuses, statusCode)
}
