// Package common defines shared constants and sentinel errors used across
// the vizlab client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Backend resource errors.
	ErrorNotFound         = errors.New("not found")
	ErrorPermissionDenied = errors.New("permission denied")

	// Auth errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")

	// Request/response errors.
	ErrorBadRequest = errors.New("bad request")
	ErrorDecode     = errors.New("malformed response body")

	// Client-side precondition errors (e.g. no file selected before upload).
	ErrorPrecondition = errors.New("precondition failed")
)
