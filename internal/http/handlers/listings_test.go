package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/domain/listing"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
)

type fakeListings struct {
	result    gateway.UserListingsResult
	listErr   error
	deleteErr error

	deleted [][2]string // roleID, userID
}

func (f *fakeListings) UserListings(ctx context.Context, userID string) (gateway.UserListingsResult, error) {
	return f.result, f.listErr
}

func (f *fakeListings) GetRole(ctx context.Context, roleID string) (listing.Listing, error) {
	for _, l := range f.result.Listings {
		if l.ID == roleID {
			return l, nil
		}
	}
	return listing.Listing{}, gateway.ErrNotFound
}

func (f *fakeListings) DeleteRole(ctx context.Context, roleID, userID string) error {
	f.deleted = append(f.deleted, [2]string{roleID, userID})
	return f.deleteErr
}

func newListingsRig(backend *fakeListings) *gin.Engine {
	h := NewListingsHandler(backend, discardLogger())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middlewares.CtxUserID, "u-1") })
	r.GET("/api/listings", h.List)
	r.GET("/api/listings/:id", h.Get)
	r.DELETE("/api/listings/:id", h.Delete)

	return r
}

type listItem struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Kind  string        `json:"kind"`
	Badge listing.Badge `json:"badge"`
}

type listResponse struct {
	Listings   []listItem `json:"listings"`
	TotalCount int        `json:"totalCount"`
}

func TestListClassifiesAndSorts(t *testing.T) {
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	backend := &fakeListings{result: gateway.UserListingsResult{
		UserID: "u-1",
		Listings: []listing.Listing{
			{ID: "r-1", Title: "Backend Engineer", Status: listing.StatusCompleted, IsActive: true, CreatedAt: base},
			{ID: "p-1", Title: "draft.pdf", Status: listing.StatusPending, CreatedAt: base.Add(48 * time.Hour)},
			{ID: "p-2", Title: "broken.pdf", Status: listing.StatusFailed, CreatedAt: base.Add(24 * time.Hour)},
		},
		TotalCount: 3,
	}}

	r := newListingsRig(backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body)
	}

	var res listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if res.TotalCount != 3 || len(res.Listings) != 3 {
		t.Fatalf("got %d listings, totalCount %d", len(res.Listings), res.TotalCount)
	}

	// default sort is newest first
	if res.Listings[0].ID != "p-1" || res.Listings[2].ID != "r-1" {
		t.Errorf("order = [%s %s %s], want newest first", res.Listings[0].ID, res.Listings[1].ID, res.Listings[2].ID)
	}

	byID := map[string]listItem{}
	for _, item := range res.Listings {
		byID[item.ID] = item
	}

	if got := byID["r-1"]; got.Kind != "role" || got.Badge.Text != "Active" {
		t.Errorf("completed listing classified as %+v", got)
	}
	if got := byID["p-1"]; got.Kind != "profile" || got.Badge.Text != "Processing" {
		t.Errorf("pending listing classified as %+v", got)
	}
	if got := byID["p-2"]; got.Kind != "profile" || got.Badge.Text != "Failed" {
		t.Errorf("failed listing classified as %+v", got)
	}
}

func TestListSortByTitle(t *testing.T) {
	backend := &fakeListings{result: gateway.UserListingsResult{
		Listings: []listing.Listing{
			{ID: "b", Title: "zebra wrangler"},
			{ID: "a", Title: "Accountant"},
		},
		TotalCount: 2,
	}}

	r := newListingsRig(backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings?sort=title&dir=asc", nil))

	var res listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.Listings[0].ID != "a" {
		t.Fatalf("first item = %q, want the accountant", res.Listings[0].Title)
	}
}

func TestListRejectsUnknownSortKey(t *testing.T) {
	r := newListingsRig(&fakeListings{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings?sort=salary", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListBackendFailure(t *testing.T) {
	r := newListingsRig(&fakeListings{listErr: errors.New("backend unreachable")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestGetRole(t *testing.T) {
	backend := &fakeListings{result: gateway.UserListingsResult{
		Listings: []listing.Listing{
			{ID: "r-1", Title: "Backend Engineer", Status: listing.StatusCompleted, IsActive: true},
		},
	}}

	r := newListingsRig(backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/r-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var item listItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if item.Kind != "role" || item.Badge.Text != "Active" {
		t.Fatalf("item = %+v", item)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/r-404", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteUsesSessionUserID(t *testing.T) {
	backend := &fakeListings{}
	r := newListingsRig(backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/listings/r-1?user_id=attacker", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if len(backend.deleted) != 1 {
		t.Fatalf("deleted %d roles, want 1", len(backend.deleted))
	}
	if got := backend.deleted[0]; got[0] != "r-1" || got[1] != "u-1" {
		t.Fatalf("DeleteRole(%q, %q), want creator id from the session", got[0], got[1])
	}
}

func TestDeleteForbidden(t *testing.T) {
	backend := &fakeListings{deleteErr: &gateway.APIError{Status: http.StatusForbidden, Message: "not the creator"}}
	r := newListingsRig(backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/listings/r-1", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	var res struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.Error.Message != "You are not authorized to delete this role" {
		t.Fatalf("message = %q", res.Error.Message)
	}
}
