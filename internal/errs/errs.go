// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errs classifies the failures a copilot run can meet. Every error
// that crosses a package boundary is either an *Error or wraps one, so the
// executor can decide whether to retry and the CLI can tell the user what
// went wrong without inspecting provider-specific types.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// Kind is the failure category.
type Kind int

const (
	KindUnknown Kind = iota

	// KindValidation is bad user input, reported before any external call.
	KindValidation

	// KindConfiguration is a missing or invalid credential or setting.
	KindConfiguration

	// KindTransient is an external service failure worth retrying: rate
	// limiting, timeouts, and 5xx responses.
	KindTransient

	// KindPermanent is an external service failure that a retry will not
	// fix, such as a rejected query or bad credentials.
	KindPermanent

	// KindTotalFailure means every search strategy failed.
	KindTotalFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindTotalFailure:
		return "total_failure"
	}
	return "unknown"
}

// Error is a classified failure.
type Error struct {
	Kind Kind

	// Op names the operation that failed (e.g. "serpapi.search").
	Op string

	// Provider is the external service involved, if any.
	Provider string

	// StatusCode is the HTTP status of the provider response, or 0.
	StatusCode int

	// RetryAfter is the provider's requested wait before the next attempt.
	RetryAfter time.Duration

	// Message is a human-readable description. When empty the wrapped
	// error's text is used.
	Message string

	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Configuration returns a KindConfiguration error.
func Configuration(op, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Message: fmt.Sprintf(format, args...)}
}

// TotalFailure returns a KindTotalFailure error.
func TotalFailure(op, format string, args ...any) error {
	return &Error{Kind: KindTotalFailure, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain. Context
// deadline errors count as transient; anything else unclassified is
// KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if IsTimeout(err) {
		return KindTransient
	}
	return KindUnknown
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// RetryAfter returns the provider's requested wait carried by err, or 0.
func RetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// FromStatus classifies a non-2xx HTTP response. 408, 429 and 5xx are
// transient; every other status is permanent.
func FromStatus(provider string, status int, retryAfter time.Duration, body string) *Error {
	kind := KindPermanent
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500 {
		kind = KindTransient
	}
	msg := http.StatusText(status)
	if body != "" {
		msg = body
	}
	return &Error{
		Kind:       kind,
		Op:         provider + ".search",
		Provider:   provider,
		StatusCode: status,
		RetryAfter: retryAfter,
		Message:    msg,
	}
}

// FromTransport classifies an error returned before any HTTP response was
// read. Timeouts and network errors are transient; caller cancellation is
// permanent so it is never retried.
func FromTransport(provider string, err error) *Error {
	kind := KindPermanent
	var ne net.Error
	switch {
	case errors.Is(err, context.Canceled):
		kind = KindPermanent
	case IsTimeout(err):
		kind = KindTransient
	case errors.As(err, &ne):
		kind = KindTransient
	}
	return &Error{Kind: kind, Op: provider + ".search", Provider: provider, Err: err}
}
