package api

import (
	"fmt"

	"github.com/dkovalev-net/vizlab/internal/common"
)

// Error is the typed failure returned for non-2xx responses. Detail carries
// the backend's error payload when one was present. Unwrap yields a sentinel
// from internal/common so callers can branch with errors.Is.
type Error struct {
	Status int
	Detail string
	err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.err
}

// classify maps an HTTP status to a sentinel error. The mapping exists for
// logging/telemetry and errors.Is matching; the response is never retried.
func classify(status int) error {
	switch {
	case status == 401:
		return common.ErrorUnauthorized
	case status == 403:
		return common.ErrorPermissionDenied
	case status == 404:
		return common.ErrorNotFound
	case status >= 400 && status < 500:
		return common.ErrorBadRequest
	case status >= 500:
		return common.ErrUnavailable
	default:
		return nil
	}
}
