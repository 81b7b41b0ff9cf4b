package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/domain/user"
	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/route"
	"github.com/hireloop/hireloop/internal/state"
)

// Small interfaces so tests can fake the provider, the backend and the
// cookie writer independently.

type CodeExchanger interface {
	AuthURL(stateToken string) string
	Exchange(ctx context.Context, code string) (auth.Claims, error)
}

type UserResolver interface {
	GetUser(ctx context.Context, identifier string, lookup gateway.LookupType) (user.User, error)
	CreateUser(ctx context.Context, nu user.NewUser) (user.User, error)
}

type CookieWriter interface {
	Issue(userID string) (string, error)
	SetCookie(ctx *gin.Context, raw string)
	ClearCookie(ctx *gin.Context)
}

type AuthHandler struct {
	provider   CodeExchanger
	users      UserResolver
	sessions   CookieWriter
	logins     state.Store
	appBaseURL string
	log        *slog.Logger
}

func NewAuthHandler(provider CodeExchanger, users UserResolver, sessions CookieWriter, logins state.Store, appBaseURL string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider:   provider,
		users:      users,
		sessions:   sessions,
		logins:     logins,
		appBaseURL: appBaseURL,
		log:        log,
	}
}

// Login starts a provider round trip. The CSRF state token and the
// post-login destination live server-side until the callback consumes them.
func (h *AuthHandler) Login(ctx *gin.Context) {
	returnTo := sanitizeReturnTo(ctx.Query("returnTo"))

	token := uuid.NewString()

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.logins.Put(cctx, token, state.Login{ReturnTo: returnTo, CreatedAt: time.Now().UTC()}); err != nil {
		h.log.Error("storing login state failed", "err", err)
		h.redirectError(ctx, "Could not start login. Please try again.")
		return
	}

	ctx.Redirect(http.StatusSeeOther, h.provider.AuthURL(token))
}

// Callback finishes the provider round trip: resolve or create the backend
// user record, decide the next onboarding step, and issue or clear the
// identity cookie on the way out. Every failure class maps to a redirect,
// never to an error status.
func (h *AuthHandler) Callback(ctx *gin.Context) {
	// The cookie contract: always clear first, set again only once a user
	// id resolves and the destination is not the error page.
	h.sessions.ClearCookie(ctx)

	if msg := providerError(ctx); msg != "" {
		h.redirectError(ctx, msg)
		return
	}

	if h.appBaseURL == "" {
		h.redirectError(ctx, "Application base URL is not configured.")
		return
	}

	returnTo := h.takeReturnTo(ctx)

	code := ctx.Query("code")
	if code == "" {
		// no subject resolved; land unauthenticated
		ctx.Redirect(http.StatusSeeOther, returnTo)
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	claims, err := h.provider.Exchange(cctx, code)
	if err != nil {
		h.log.Error("code exchange failed", "err", err)
		ctx.Redirect(http.StatusSeeOther, string(route.Home))
		return
	}

	if claims.Subject == "" {
		ctx.Redirect(http.StatusSeeOther, returnTo)
		return
	}

	identifier, byEmail, ok := claims.Identifier()
	if !ok {
		h.redirectError(ctx, "Your login carries neither an email address nor a phone number.")
		return
	}

	lookup := gateway.LookupByEmail
	if !byEmail {
		lookup = gateway.LookupByPhone
	}

	u, err := h.users.GetUser(cctx, identifier, lookup)

	switch {
	case errors.Is(err, gateway.ErrNotFound):
		h.handleNewUser(ctx, cctx, claims)
		return

	case err != nil:
		// fail safe to the logged-out landing page, not to an error loop
		h.log.Error("user lookup failed", "identifier", identifier, "err", err)
		ctx.Redirect(http.StatusSeeOther, string(route.Home))
		return
	}

	dest := string(route.NextFor(u))
	if dest == string(route.Home) {
		dest = returnTo
	}

	h.issueAndRedirect(ctx, u.ID, dest)
}

// Logout drops the identity cookie. The provider's own session is its
// concern, not ours.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.sessions.ClearCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, string(route.Home))
}

func (h *AuthHandler) handleNewUser(ctx *gin.Context, cctx context.Context, claims auth.Claims) {
	nu := user.NewUser{
		Name: claims.Name,
		ContactDetails: user.ContactDetails{
			Email:       claims.Email,
			PhoneNumber: claims.PhoneNumber,
		},
		ProfilePictureURL: claims.Picture,
	}

	created, err := h.users.CreateUser(cctx, nu)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			h.redirectError(ctx, apiErr.Message)
			return
		}

		h.log.Error("user creation failed", "err", err)
		ctx.Redirect(http.StatusSeeOther, string(route.Home))
		return
	}

	h.issueAndRedirect(ctx, created.ID, string(route.UploadCV))
}

func (h *AuthHandler) issueAndRedirect(ctx *gin.Context, userID, dest string) {
	raw, err := h.sessions.Issue(userID)
	if err != nil {
		h.log.Error("issuing session failed", "user_id", userID, "err", err)
		ctx.Redirect(http.StatusSeeOther, string(route.Home))
		return
	}

	h.sessions.SetCookie(ctx, raw)
	ctx.Redirect(http.StatusSeeOther, dest)
}

// takeReturnTo consumes the login-state entry for this round trip. A missing
// or expired entry falls back to home rather than failing the login.
func (h *AuthHandler) takeReturnTo(ctx *gin.Context) string {
	token := ctx.Query("state")
	if token == "" {
		return string(route.Home)
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	login, ok, err := h.logins.Take(cctx, token)
	if err != nil {
		h.log.Warn("login state lookup failed", "err", err)
		return string(route.Home)
	}

	if !ok {
		return string(route.Home)
	}

	return sanitizeReturnTo(login.ReturnTo)
}

func (h *AuthHandler) redirectError(ctx *gin.Context, message string) {
	ctx.Redirect(http.StatusSeeOther, string(route.Error)+"?message="+url.QueryEscape(message))
}

func providerError(ctx *gin.Context) string {
	if e := ctx.Query("error"); e != "" {
		if desc := ctx.Query("error_description"); desc != "" {
			return desc
		}
		return e
	}
	return ""
}

// sanitizeReturnTo keeps redirects on this site: relative paths only.
func sanitizeReturnTo(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return string(route.Home)
	}
	return p
}
