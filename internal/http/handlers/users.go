package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/http/middlewares"
)

type RoleUpdater interface {
	UpdateUserRole(ctx context.Context, userID string, role user.Role) error
}

type Forwarder interface {
	Forward(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error)
}

type UsersHandler struct {
	roles     RoleUpdater
	forwarder Forwarder
	log       *slog.Logger
}

func NewUsersHandler(roles RoleUpdater, forwarder Forwarder, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		roles:     roles,
		forwarder: forwarder,
		log:       log,
	}
}

type UpdateRoleRequest struct {
	Role user.Role `json:"role" binding:"required,oneof=recruiter job_seeker"`
}

// UpdateRole sets the mode the user picked on the mode-selection page. The
// user id comes from the verified session.
func (h *UsersHandler) UpdateRole(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	var req UpdateRoleRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	if err := h.roles.UpdateUserRole(cctx, userID, req.Role); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.Warn("role update failed", "user_id", userID, "err", err)
		RespondBadGateway(ctx, "Could not update role")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"role": string(req.Role),
	})
}

// ProxyCreateUser and ProxyGetUser forward body and status to the backend
// unchanged. No logic beyond pass-through and no-store.

func (h *UsersHandler) ProxyCreateUser(ctx *gin.Context) {
	h.forward(ctx, http.MethodPost, "/api/users")
}

func (h *UsersHandler) ProxyGetUser(ctx *gin.Context) {
	h.forward(ctx, http.MethodGet, "/api/users/"+url.PathEscape(ctx.Param("id")))
}

func (h *UsersHandler) forward(ctx *gin.Context, method, path string) {
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	var body io.Reader
	if method != http.MethodGet {
		body = ctx.Request.Body
	}

	resp, err := h.forwarder.Forward(cctx, method, path, ctx.Request.URL.Query(), body, ctx.ContentType())
	if err != nil {
		h.log.Warn("proxy call failed", "method", method, "path", path, "err", err)
		RespondBadGateway(ctx, "Backend unavailable")
		return
	}
	defer resp.Body.Close()

	ctx.Header("Cache-Control", "no-store")
	ctx.DataFromReader(resp.StatusCode, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
}
