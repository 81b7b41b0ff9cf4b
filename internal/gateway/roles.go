package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hireloop/hireloop/internal/domain/listing"
)

// UserListingsResult is the merged feed of a user's role listings and
// still-processing role profiles.
type UserListingsResult struct {
	UserID     string            `json:"user_id"`
	Listings   []listing.Listing `json:"listings"`
	TotalCount int               `json:"total_count"`
}

// UserListings fetches all listings created by the given user.
func (c *Client) UserListings(ctx context.Context, userID string) (UserListingsResult, error) {
	var res UserListingsResult
	err := c.doJSON(ctx, "user_listings", http.MethodGet, "/api/roles/user-listings/"+url.PathEscape(userID), nil, nil, &res)

	return res, err
}

// GetRole fetches a single role listing or role profile by id.
func (c *Client) GetRole(ctx context.Context, roleID string) (listing.Listing, error) {
	var res listing.Listing
	err := c.doJSON(ctx, "get_role", http.MethodGet, "/api/roles/role/"+url.PathEscape(roleID), nil, nil, &res)

	return res, err
}

// DeleteRole removes a role the given user created. The backend refuses the
// delete with a 403 when userID is not the creator.
func (c *Client) DeleteRole(ctx context.Context, roleID, userID string) error {
	q := url.Values{}
	q.Set("user_id", userID)

	return c.doJSON(ctx, "delete_role", http.MethodDelete, "/api/roles/role/"+url.PathEscape(roleID), q, nil, nil)
}
