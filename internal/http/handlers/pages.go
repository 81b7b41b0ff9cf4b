package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/cvwatch"
	"github.com/hireloop/hireloop/internal/domain/listing"
	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
	"github.com/hireloop/hireloop/internal/route"
)

type UserFetcher interface {
	GetUser(ctx context.Context, identifier string, lookup gateway.LookupType) (user.User, error)
}

type ListingsFetcher interface {
	UserListings(ctx context.Context, userID string) (gateway.UserListingsResult, error)
}

type CVStatusFetcher interface {
	CVStatus(ctx context.Context, userID string) (gateway.CVStatusResult, error)
}

// PagesHandler serves the server-rendered pages. Every protected page
// re-derives the user's onboarding state on load, because users navigate to
// URLs directly without passing through the login callback.
type PagesHandler struct {
	users    UserFetcher
	listings ListingsFetcher
	cvs      CVStatusFetcher
	log      *slog.Logger
}

func NewPagesHandler(users UserFetcher, listings ListingsFetcher, cvs CVStatusFetcher, log *slog.Logger) *PagesHandler {
	return &PagesHandler{
		users:    users,
		listings: listings,
		cvs:      cvs,
		log:      log,
	}
}

// DashboardItem is one dashboard row: the listing plus its derived
// classification and badge.
type DashboardItem struct {
	Listing listing.Listing
	Kind    listing.Kind
	Badge   listing.Badge
}

func (h *PagesHandler) Home(ctx *gin.Context) {
	u, ok := h.guard(ctx, "")
	if !ok {
		return
	}

	if u.Role == user.RoleRecruiter {
		h.recruiterDashboard(ctx, u)
		return
	}

	ctx.HTML(http.StatusOK, "home_seeker", gin.H{
		"User": u,
	})
}

func (h *PagesHandler) recruiterDashboard(ctx *gin.Context, u user.User) {
	sortKey := listing.SortKey(ctx.DefaultQuery("sort", string(listing.SortByDate)))
	if !sortKey.Valid() {
		sortKey = listing.SortByDate
	}
	descending := ctx.DefaultQuery("dir", "desc") == "desc"

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	res, err := h.listings.UserListings(cctx, u.ID)
	if err != nil {
		h.log.Warn("listings fetch failed", "user_id", u.ID, "err", err)
		ctx.HTML(http.StatusOK, "home_recruiter", gin.H{
			"User":       u,
			"LoadFailed": true,
		})
		return
	}

	listing.Sort(res.Listings, sortKey, descending)

	items := make([]DashboardItem, 0, len(res.Listings))
	for _, l := range res.Listings {
		items = append(items, DashboardItem{
			Listing: l,
			Kind:    listing.KindOf(l),
			Badge:   listing.BadgeFor(l),
		})
	}

	ctx.HTML(http.StatusOK, "home_recruiter", gin.H{
		"User":       u,
		"Items":      items,
		"SortKey":    string(sortKey),
		"Descending": descending,
	})
}

func (h *PagesHandler) UploadCV(ctx *gin.Context) {
	u, ok := h.guard(ctx, route.UploadCV)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	status := cvwatch.Resolve(h.cvs.CVStatus(cctx, u.ID))

	ctx.HTML(http.StatusOK, "upload_cv", gin.H{
		"User":   u,
		"Status": string(status),
	})
}

func (h *PagesHandler) UploadJD(ctx *gin.Context) {
	u, ok := h.guard(ctx, route.UploadJD)
	if !ok {
		return
	}

	ctx.HTML(http.StatusOK, "upload_jd", gin.H{
		"User": u,
	})
}

func (h *PagesHandler) ModeSelection(ctx *gin.Context) {
	u, ok := h.guard(ctx, route.ModeSelection)
	if !ok {
		return
	}

	ctx.HTML(http.StatusOK, "mode_selection", gin.H{
		"User": u,
	})
}

// ErrorPage shows the human-readable message the auth callback redirected
// with. Reachable logged out.
func (h *PagesHandler) ErrorPage(ctx *gin.Context) {
	message := ctx.Query("message")
	if message == "" {
		message = "Something went wrong."
	}

	ctx.HTML(http.StatusOK, "error", gin.H{
		"Message": message,
	})
}

// guard fetches the fresh user record and bounces the request when the page
// does not match the derived onboarding state. page == "" means home.
//
// Fetch failures stay on the page: home shows its terminal error panel, all
// other pages a neutral loading state, so a backend blip never traps the
// user in a redirect loop.
func (h *PagesHandler) guard(ctx *gin.Context, page route.Route) (user.User, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		// the session middleware should have redirected already
		ctx.Redirect(http.StatusSeeOther, string(route.Login))
		ctx.Abort()
		return user.User{}, false
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	u, err := h.users.GetUser(cctx, userID, gateway.LookupByID)
	if err != nil {
		h.log.Warn("user fetch failed", "user_id", userID, "err", err)

		if page == "" {
			ctx.HTML(http.StatusOK, "home_error", gin.H{})
		} else {
			ctx.HTML(http.StatusOK, "loading", gin.H{})
		}
		return user.User{}, false
	}

	if page == "" {
		if next := route.NextFor(u); next != route.Home {
			ctx.Redirect(http.StatusSeeOther, string(next))
			return user.User{}, false
		}
		return u, true
	}

	if !route.Allowed(u, page) {
		ctx.Redirect(http.StatusSeeOther, string(route.NextFor(u)))
		return user.User{}, false
	}

	return u, true
}
