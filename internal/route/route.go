// Package route holds the one onboarding state machine. The auth callback
// and every protected page derive "where should this user be" from the same
// function, so login-time routing and direct-navigation guards cannot drift.
package route

import "github.com/hireloop/hireloop/internal/domain/user"

type Route string

const (
	Home          Route = "/"
	Login         Route = "/auth/login"
	UploadCV      Route = "/upload-cv"
	UploadJD      Route = "/upload-jd"
	ModeSelection Route = "/mode-selection"
	Error         Route = "/auth/error"
)

// NextFor derives the page a user belongs on. Order matters: onboarding
// completes before a mode is picked, so the CV gate is checked first.
func NextFor(u user.User) Route {
	if !u.IsOnboarded {
		return UploadCV
	}

	if u.Role == user.RoleUnset {
		return ModeSelection
	}

	return Home
}

// Allowed reports whether a user in the given state may stay on the page.
// Home and the JD upload page additionally require a finished profile; the
// CV and mode-selection pages are exactly the states NextFor routes to.
func Allowed(u user.User, page Route) bool {
	switch page {
	case UploadCV:
		return NextFor(u) == UploadCV
	case ModeSelection:
		return NextFor(u) == ModeSelection
	case UploadJD:
		return NextFor(u) == Home && u.Role == user.RoleRecruiter
	default:
		return NextFor(u) == Home
	}
}
