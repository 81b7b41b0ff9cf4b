package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/domain/listing"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
)

type ListingsBackend interface {
	UserListings(ctx context.Context, userID string) (gateway.UserListingsResult, error)
	GetRole(ctx context.Context, roleID string) (listing.Listing, error)
	DeleteRole(ctx context.Context, roleID, userID string) error
}

type ListingsHandler struct {
	backend ListingsBackend
	log     *slog.Logger
}

func NewListingsHandler(backend ListingsBackend, log *slog.Logger) *ListingsHandler {
	return &ListingsHandler{backend: backend, log: log}
}

// ListingItem is the API shape of one dashboard row.
type ListingItem struct {
	listing.Listing
	Kind  listing.Kind  `json:"kind"`
	Badge listing.Badge `json:"badge"`
}

// List returns the session user's listings, classified and sorted. Sort key
// and direction come from the query string.
func (h *ListingsHandler) List(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	sortKey := listing.SortKey(ctx.DefaultQuery("sort", string(listing.SortByDate)))
	if !sortKey.Valid() {
		RespondBadRequest(ctx, "Unknown sort key", gin.H{"sort": string(sortKey)})
		return
	}
	descending := ctx.DefaultQuery("dir", "desc") == "desc"

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	res, err := h.backend.UserListings(cctx, userID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.Warn("listings fetch failed", "user_id", userID, "err", err)
		RespondBadGateway(ctx, "Could not fetch listings")
		return
	}

	listing.Sort(res.Listings, sortKey, descending)

	items := make([]ListingItem, 0, len(res.Listings))
	for _, l := range res.Listings {
		items = append(items, ListingItem{
			Listing: l,
			Kind:    listing.KindOf(l),
			Badge:   listing.BadgeFor(l),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"listings":   items,
		"totalCount": res.TotalCount,
	})
}

func (h *ListingsHandler) Get(ctx *gin.Context) {
	roleID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	l, err := h.backend.GetRole(cctx, roleID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			RespondNotFound(ctx, "Role not found")
			return
		}

		h.log.Warn("role fetch failed", "role_id", roleID, "err", err)
		RespondBadGateway(ctx, "Could not fetch role")
		return
	}

	ctx.JSON(http.StatusOK, ListingItem{
		Listing: l,
		Kind:    listing.KindOf(l),
		Badge:   listing.BadgeFor(l),
	})
}

// Delete removes one of the session user's own listings. The creator id
// sent to the backend comes from the verified session, never from the
// request.
func (h *ListingsHandler) Delete(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)
	roleID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err := h.backend.DeleteRole(cctx, roleID, userID)
	if err != nil {
		var apiErr *gateway.APIError

		switch {
		case errors.Is(err, gateway.ErrNotFound):
			RespondNotFound(ctx, "Role not found")

		case errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden:
			RespondForbidden(ctx, "You are not authorized to delete this role")

		default:
			h.log.Warn("role delete failed", "role_id", roleID, "err", err)
			RespondBadGateway(ctx, "Could not delete role")
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
