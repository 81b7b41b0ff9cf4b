package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the identity cookie. It is the only client-side session
// state: losing it forces re-derivation through a fresh login.
const CookieName = "hireloop_session"

type Claims struct {
	UserID string `json:"sub"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager issues and verifies the signed identity cookie. The cookie value
// is an HS256 token whose subject is the backend user id; handlers trust
// only the verified subject, never a client-supplied id.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, env string) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: env == "prod",
	}
}

func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid || claims.UserID == "" {
		return "", errors.New("invalid session token")
	}

	return claims.UserID, nil
}

// SetCookie issues the identity cookie for a resolved user. Deliberately not
// HttpOnly: page scripts read it to know a session exists. SameSite=Lax so
// the provider's callback redirect still carries it.
func (m *Manager) SetCookie(ctx *gin.Context, raw string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		CookieName,
		raw,
		int(m.ttl.Seconds()),
		"/",
		"",
		m.secure,
		false,
	)
}

func (m *Manager) ClearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		CookieName,
		"",
		-1,
		"/",
		"",
		m.secure,
		false,
	)
}

// UserIDFromRequest resolves the verified user id from the request cookie.
func (m *Manager) UserIDFromRequest(ctx *gin.Context) (string, bool) {
	raw, err := ctx.Cookie(CookieName)
	if err != nil || raw == "" {
		return "", false
	}

	id, err := m.Verify(raw)
	if err != nil {
		return "", false
	}

	return id, true
}
