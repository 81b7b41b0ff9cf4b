package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hireloop/hireloop/internal/domain/user"
)

type LookupType string

const (
	LookupByID    LookupType = "id"
	LookupByEmail LookupType = "email"
	LookupByPhone LookupType = "phone_number"
)

// CreateUser registers a new backend user record from provider profile
// fields and returns the created record.
func (c *Client) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	var u user.User
	err := c.doJSON(ctx, "create_user", http.MethodPost, "/api/users", nil, nu, &u)

	return u, err
}

// GetUser fetches a user by id, email or phone number. Returns ErrNotFound
// on a backend 404.
func (c *Client) GetUser(ctx context.Context, identifier string, lookup LookupType) (user.User, error) {
	q := url.Values{}
	q.Set("lookup_type", string(lookup))

	var u user.User
	err := c.doJSON(ctx, "get_user", http.MethodGet, "/api/users/"+url.PathEscape(identifier), q, nil, &u)

	return u, err
}

// UpdateUserRole patches the user's role on the backend.
func (c *Client) UpdateUserRole(ctx context.Context, userID string, role user.Role) error {
	body := map[string]string{"role": string(role)}

	return c.doJSON(ctx, "update_role", http.MethodPatch, "/api/users/"+url.PathEscape(userID)+"/role", nil, body, nil)
}
