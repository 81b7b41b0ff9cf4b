package cvwatch

import (
	"errors"

	"github.com/hireloop/hireloop/internal/gateway"
)

// Status is the page-facing view of a CV processing run. Transient: held per
// subscription, re-derived from backend polling, never persisted.
type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Terminal reports whether polling should stop at this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// FromBackend maps a backend-reported run status. The backend says "failed";
// pages show "error". Anything unrecognized is still in flight.
func FromBackend(s string) Status {
	switch s {
	case "completed":
		return StatusCompleted
	case "failed", "error":
		return StatusError
	default:
		return StatusPending
	}
}

// Resolve maps one status fetch to a page status: no run yet reads as none,
// any other failure reads as error.
func Resolve(res gateway.CVStatusResult, err error) Status {
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return StatusNone
		}

		return StatusError
	}

	return FromBackend(res.Status)
}
