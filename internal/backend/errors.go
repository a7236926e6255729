package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a backend call failure so callers can pick the right
// user-facing surface without inspecting transport details.
type Kind int

const (
	// KindInvalidArgument means a required field was missing; no network
	// call was made.
	KindInvalidArgument Kind = iota
	// KindUnavailable means the connection to the backend could not be
	// established.
	KindUnavailable
	// KindUpstream means the backend was reachable but responded with a
	// failure status.
	KindUpstream
	// KindTimeout means the call exceeded the client-side deadline.
	KindTimeout
)

type Error struct {
	Kind       Kind
	StatusCode int    // upstream HTTP status, set for KindUpstream
	Body       string // upstream response body, set for KindUpstream
	err        error
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, err: fmt.Errorf(format, args...)}
}

func upstreamErrorf(status int, body string, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, StatusCode: status, Body: body, err: fmt.Errorf(format, args...)}
}

func kindOf(err error) (Kind, bool) {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Kind, true
	}
	return 0, false
}

func IsInvalidArgument(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindInvalidArgument
}

func IsUnavailable(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindUnavailable
}

func IsTimeout(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindTimeout
}
