package gateway

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("gateway: not found")

// APIError carries the backend's own error payload through to callers that
// want to show the reported message (e.g. the auth callback's error page).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: backend returned %d: %s", e.Status, e.Message)
}

// errorClass buckets a failure for metrics.
func errorClass(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return "network"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return ""
}
