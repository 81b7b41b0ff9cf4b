package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "dev")

	raw, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() returned error: %v", err)
	}

	id, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() returned error: %v", err)
	}
	if id != "user-123" {
		t.Fatalf("Verify() = %q, want %q", id, "user-123")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "dev")

	raw, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() returned error: %v", err)
	}

	tampered := raw[:len(raw)-2] + "xx"
	if _, err := m.Verify(tampered); err == nil {
		t.Fatal("Verify() accepted a tampered token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, "dev")
	verifier := NewManager("secret-b", time.Hour, "dev")

	raw, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() returned error: %v", err)
	}

	if _, err := verifier.Verify(raw); err == nil {
		t.Fatal("Verify() accepted a token signed with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, "dev")

	raw, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() returned error: %v", err)
	}

	if _, err := m.Verify(raw); err == nil {
		t.Fatal("Verify() accepted an expired token")
	}
}

func TestSetCookieAttributes(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "dev")

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	m.SetCookie(ctx, "token-value")

	header := w.Header().Get("Set-Cookie")
	if !strings.HasPrefix(header, CookieName+"=token-value") {
		t.Fatalf("Set-Cookie = %q, want %s=token-value prefix", header, CookieName)
	}
	if !strings.Contains(header, "Path=/") {
		t.Errorf("Set-Cookie missing Path=/: %q", header)
	}
	if !strings.Contains(header, "SameSite=Lax") {
		t.Errorf("Set-Cookie missing SameSite=Lax: %q", header)
	}
	if strings.Contains(header, "HttpOnly") {
		t.Errorf("identity cookie must be readable by page scripts: %q", header)
	}
	if strings.Contains(header, "Secure") {
		t.Errorf("dev cookie should not be Secure: %q", header)
	}
}

func TestSetCookieSecureInProd(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "prod")

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	m.SetCookie(ctx, "token-value")

	if header := w.Header().Get("Set-Cookie"); !strings.Contains(header, "Secure") {
		t.Fatalf("prod cookie missing Secure: %q", header)
	}
}

func TestClearCookieExpiresImmediately(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "dev")

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	m.ClearCookie(ctx)

	header := w.Header().Get("Set-Cookie")
	if !strings.HasPrefix(header, CookieName+"=") {
		t.Fatalf("Set-Cookie = %q, want %s= prefix", header, CookieName)
	}
	if !strings.Contains(header, "Max-Age=0") {
		t.Errorf("cleared cookie should carry Max-Age=0: %q", header)
	}
}

func TestUserIDFromRequest(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "dev")

	raw, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() returned error: %v", err)
	}

	tests := []struct {
		name   string
		cookie *http.Cookie
		wantID string
		wantOK bool
	}{
		{"valid cookie", &http.Cookie{Name: CookieName, Value: raw}, "user-123", true},
		{"no cookie", nil, "", false},
		{"garbage cookie", &http.Cookie{Name: CookieName, Value: "not-a-token"}, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != nil {
				ctx.Request.AddCookie(tc.cookie)
			}

			id, ok := m.UserIDFromRequest(ctx)
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("UserIDFromRequest() = (%q, %v), want (%q, %v)", id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}
