// Package apperr defines the closed set of failure kinds surfaced by the
// editorial pipeline and their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrURLParse          = errors.New("invalid problem url")
	ErrNotFound          = errors.New("resource not found")
	ErrNetwork           = errors.New("network failure")
	ErrParsing           = errors.New("parsing failed")
	ErrEditorialNotFound = errors.New("editorial not found")
	ErrExtraction        = errors.New("extraction failed")
	ErrCache             = errors.New("cache failure")
	ErrPipeline          = errors.New("editorial pipeline failed") // umbrella for unexpected faults
)

var kinds = []error{
	ErrURLParse,
	ErrNotFound,
	ErrNetwork,
	ErrParsing,
	ErrEditorialNotFound,
	ErrExtraction,
	ErrCache,
	ErrPipeline,
}

// Error is a failure of a known kind with a human-readable message and an
// optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// New creates an *Error of the given kind.
func New(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the outermost failure kind carried by err, or nil if err is
// not a domain failure.
func Kind(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsDomain reports whether err carries one of the known failure kinds.
func IsDomain(err error) bool {
	return Kind(err) != nil
}

// HTTPStatus maps a failure kind to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch Kind(err) {
	case ErrURLParse:
		return http.StatusBadRequest
	case ErrNotFound, ErrEditorialNotFound:
		return http.StatusNotFound
	case ErrNetwork:
		return http.StatusBadGateway
	case ErrParsing, ErrExtraction:
		return http.StatusUnprocessableEntity
	case ErrCache:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
