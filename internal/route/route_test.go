package route_test

import (
	"testing"

	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/route"
)

func TestNextFor(t *testing.T) {
	tests := []struct {
		name string
		u    user.User
		want route.Route
	}{
		{
			name: "new user goes to cv upload",
			u:    user.User{ID: "u1"},
			want: route.UploadCV,
		},
		{
			name: "onboarded without role goes to mode selection",
			u:    user.User{ID: "u1", IsOnboarded: true},
			want: route.ModeSelection,
		},
		{
			name: "onboarded recruiter goes home",
			u:    user.User{ID: "u1", IsOnboarded: true, Role: user.RoleRecruiter},
			want: route.Home,
		},
		{
			name: "onboarded job seeker goes home",
			u:    user.User{ID: "u1", IsOnboarded: true, Role: user.RoleJobSeeker},
			want: route.Home,
		},
		{
			name: "role set but not onboarded still goes to cv upload",
			u:    user.User{ID: "u1", Role: user.RoleJobSeeker},
			want: route.UploadCV,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := route.NextFor(tc.u); got != tc.want {
				t.Fatalf("NextFor() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	onboardedRecruiter := user.User{ID: "u1", IsOnboarded: true, Role: user.RoleRecruiter}
	onboardedSeeker := user.User{ID: "u2", IsOnboarded: true, Role: user.RoleJobSeeker}
	fresh := user.User{ID: "u3"}
	noRole := user.User{ID: "u4", IsOnboarded: true}

	tests := []struct {
		name string
		u    user.User
		page route.Route
		want bool
	}{
		{"fresh user may stay on cv upload", fresh, route.UploadCV, true},
		{"fresh user may not see home", fresh, route.Home, false},
		{"no-role user may stay on mode selection", noRole, route.ModeSelection, true},
		{"no-role user may not upload a jd", noRole, route.UploadJD, false},
		{"recruiter may upload a jd", onboardedRecruiter, route.UploadJD, true},
		{"seeker may not upload a jd", onboardedSeeker, route.UploadJD, false},
		{"recruiter may not revisit cv upload", onboardedRecruiter, route.UploadCV, false},
		{"seeker may see home", onboardedSeeker, route.Home, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := route.Allowed(tc.u, tc.page); got != tc.want {
				t.Fatalf("Allowed(%q) = %v, want %v", tc.page, got, tc.want)
			}
		})
	}
}
