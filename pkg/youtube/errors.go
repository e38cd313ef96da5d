package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies why a duration lookup failed.
type FailureKind string

const (
	NotFound      FailureKind = "not_found"
	QuotaExceeded FailureKind = "quota_exceeded"
	BadRequest    FailureKind = "bad_request"
	NetworkError  FailureKind = "network_error"
	Timeout       FailureKind = "timeout"
	Unavailable   FailureKind = "unavailable"
)

// FetchError is a per-video lookup failure.
type FetchError struct {
	Kind       FailureKind
	VideoID    string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("youtube: %s for %s", e.Kind, e.VideoID)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status of the failed response, or 0.
func (e *FetchError) HTTPStatus() int {
	return e.StatusCode
}

// Fatal reports whether the failure means no further lookup can succeed,
// such as an exhausted quota or a rejected key.
func (e *FetchError) Fatal() bool {
	return e.Kind == QuotaExceeded
}

// KindOf classifies err. Errors that are not a FetchError are mapped to
// Timeout for deadline expiry and NetworkError otherwise.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	return NetworkError
}

// IsFatal reports whether err carries a fatal FetchError.
func IsFatal(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Fatal()
}

func transportError(videoID string, err error) *FetchError {
	kind := NetworkError
	if KindOf(err) == Timeout {
		kind = Timeout
	}
	return &FetchError{Kind: kind, VideoID: videoID, Err: err}
}
