// Package errors provides structured error types for trustscore.
//
// The scoring pipeline distinguishes three failure classes, each with its own
// containment boundary:
//   - FETCH_ERROR: a handler could not retrieve one field; the field is marked
//     missing and scoring continues.
//   - METRIC_ERROR / METRIC_TIMEOUT: one metric failed or ran out of time; its
//     value becomes 0 and sibling metrics are unaffected.
//   - PIPELINE_ERROR: the artifact itself cannot be processed (for example the
//     URL cannot be classified); a zeroed row is still emitted for it.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidURL, "cannot parse %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidURL) {
//	    // Handle classification failure
//	}
//
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "readme for %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidURL        Code = "INVALID_URL"
	ErrCodeUnsupportedSource Code = "UNSUPPORTED_SOURCE"

	// Remote errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Failure classes
	ErrCodeFetch         Code = "FETCH_ERROR"
	ErrCodeMetric        Code = "METRIC_ERROR"
	ErrCodeMetricTimeout Code = "METRIC_TIMEOUT"
	ErrCodePipeline      Code = "PIPELINE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Scope is the containment boundary of a failure: how much of an
// artifact's result it invalidates.
type Scope int

const (
	// ScopeField degrades one metadata field; scoring continues.
	ScopeField Scope = iota + 1
	// ScopeMetric zeroes one metric value.
	ScopeMetric
	// ScopeArtifact zeroes the artifact's whole row.
	ScopeArtifact
)

// Scope returns the boundary at which failures with code c are contained.
// Remote errors (NOT_FOUND, NETWORK_ERROR, RATE_LIMITED) and FETCH_ERROR
// stay inside the field they were fetched for.
func (c Code) Scope() Scope {
	switch c {
	case ErrCodeMetric, ErrCodeMetricTimeout:
		return ScopeMetric
	case ErrCodePipeline, ErrCodeInvalidURL, ErrCodeUnsupportedSource, ErrCodeInternal:
		return ScopeArtifact
	}
	return ScopeField
}

// Error is a coded error, optionally tied to one artifact.
type Error struct {
	Code     Code
	Artifact string // artifact URL, when known
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Artifact != "" {
		b.WriteString(" [" + e.Artifact + "]")
	}
	b.WriteString(": " + e.Message)
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// For ties err to an artifact. A coded error is copied with Artifact set;
// any other error becomes an INTERNAL_ERROR.
func For(artifactURL string, err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := as(err); ok {
		cp := *e
		cp.Artifact = artifactURL
		return &cp
	}
	return &Error{Code: ErrCodeInternal, Artifact: artifactURL, Message: "unexpected failure", Cause: err}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code and artifact decoration.
// For other errors it returns err.Error().
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// AbortsArtifact reports whether err zeroes a whole artifact row.
func AbortsArtifact(err error) bool {
	return GetCode(err).Scope() == ScopeArtifact
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
