package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/domain/listing"
	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
	"github.com/hireloop/hireloop/web"
)

type fakePagesBackend struct {
	user     user.User
	userErr  error
	listings gateway.UserListingsResult
	listErr  error
	cvStatus gateway.CVStatusResult
	cvErr    error
}

func (f *fakePagesBackend) GetUser(ctx context.Context, identifier string, lookup gateway.LookupType) (user.User, error) {
	return f.user, f.userErr
}

func (f *fakePagesBackend) UserListings(ctx context.Context, userID string) (gateway.UserListingsResult, error) {
	return f.listings, f.listErr
}

func (f *fakePagesBackend) CVStatus(ctx context.Context, userID string) (gateway.CVStatusResult, error) {
	return f.cvStatus, f.cvErr
}

func newPagesRig(backend *fakePagesBackend, loggedIn bool) *gin.Engine {
	h := NewPagesHandler(backend, backend, backend, discardLogger())

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	if loggedIn {
		r.Use(func(c *gin.Context) { c.Set(middlewares.CtxUserID, "u-1") })
	}
	r.GET("/", h.Home)
	r.GET("/upload-cv", h.UploadCV)
	r.GET("/upload-jd", h.UploadJD)
	r.GET("/mode-selection", h.ModeSelection)
	r.GET("/auth/error", h.ErrorPage)

	return r
}

func getPage(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPageGuardRedirects(t *testing.T) {
	fresh := user.User{ID: "u-1", Name: "Ada"}
	noRole := user.User{ID: "u-1", Name: "Ada", IsOnboarded: true}
	seeker := user.User{ID: "u-1", Name: "Ada", IsOnboarded: true, Role: user.RoleJobSeeker}
	recruiter := user.User{ID: "u-1", Name: "Ada", IsOnboarded: true, Role: user.RoleRecruiter}

	tests := []struct {
		name         string
		u            user.User
		target       string
		wantRedirect string // empty means the page renders
	}{
		{"new user on home", fresh, "/", "/upload-cv"},
		{"new user on mode selection", fresh, "/mode-selection", "/upload-cv"},
		{"no-role user on home", noRole, "/", "/mode-selection"},
		{"no-role user stays on mode selection", noRole, "/mode-selection", ""},
		{"seeker on cv upload", seeker, "/upload-cv", "/"},
		{"seeker on jd upload", seeker, "/upload-jd", "/"},
		{"recruiter stays on jd upload", recruiter, "/upload-jd", ""},
		{"recruiter on home", recruiter, "/", ""},
		{"new user stays on cv upload", fresh, "/upload-cv", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newPagesRig(&fakePagesBackend{user: tc.u}, true)

			w := getPage(r, tc.target)

			if tc.wantRedirect == "" {
				if w.Code != http.StatusOK {
					t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body)
				}
				return
			}

			if w.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != tc.wantRedirect {
				t.Fatalf("Location = %q, want %q", loc, tc.wantRedirect)
			}
		})
	}
}

func TestHomeFetchFailureRendersErrorPanel(t *testing.T) {
	r := newPagesRig(&fakePagesBackend{userErr: errors.New("backend unreachable")}, true)

	w := getPage(r, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 error panel, not a redirect", w.Code)
	}
	if !strings.Contains(w.Body.String(), "try again") {
		t.Fatalf("home error panel missing retry hint: %s", w.Body)
	}
}

func TestProtectedPageFetchFailureRendersLoading(t *testing.T) {
	r := newPagesRig(&fakePagesBackend{userErr: errors.New("backend unreachable")}, true)

	w := getPage(r, "/upload-cv")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 neutral loading state", w.Code)
	}
	if !strings.Contains(strings.ToLower(w.Body.String()), "loading") {
		t.Fatalf("expected the loading state: %s", w.Body)
	}
}

func TestRecruiterDashboardRendersListings(t *testing.T) {
	recruiter := user.User{ID: "u-1", Name: "Ada", IsOnboarded: true, Role: user.RoleRecruiter}
	backend := &fakePagesBackend{
		user: recruiter,
		listings: gateway.UserListingsResult{
			Listings: []listing.Listing{
				{ID: "r-1", Title: "Backend Engineer", Status: listing.StatusCompleted, IsActive: true},
				{ID: "p-1", Title: "draft.pdf", Status: listing.StatusPending},
			},
			TotalCount: 2,
		},
	}

	r := newPagesRig(backend, true)

	w := getPage(r, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{"Backend Engineer", "Processing", "Active"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestRecruiterDashboardListingsFailure(t *testing.T) {
	recruiter := user.User{ID: "u-1", IsOnboarded: true, Role: user.RoleRecruiter}
	r := newPagesRig(&fakePagesBackend{user: recruiter, listErr: errors.New("backend unreachable")}, true)

	w := getPage(r, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Could not load") {
		t.Fatalf("expected the load-failed panel: %s", w.Body)
	}
}

func TestUploadCVPageShowsCurrentStatus(t *testing.T) {
	fresh := user.User{ID: "u-1", Name: "Ada"}

	tests := []struct {
		name   string
		status gateway.CVStatusResult
		err    error
		want   string
	}{
		{"nothing uploaded yet", gateway.CVStatusResult{}, gateway.ErrNotFound, `data-status="none"`},
		{"run in flight", gateway.CVStatusResult{Status: "pending"}, nil, `data-status="pending"`},
		{"previous run failed", gateway.CVStatusResult{Status: "failed"}, nil, `data-status="error"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newPagesRig(&fakePagesBackend{user: fresh, cvStatus: tc.status, cvErr: tc.err}, true)

			w := getPage(r, "/upload-cv")

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Fatalf("page missing %q: %s", tc.want, w.Body)
			}
		})
	}
}

func TestErrorPageShowsMessage(t *testing.T) {
	r := newPagesRig(&fakePagesBackend{}, false)

	w := getPage(r, "/auth/error?message=Login+failed")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Login failed") {
		t.Fatalf("error page missing the message: %s", w.Body)
	}
}
