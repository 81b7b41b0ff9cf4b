package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Claims is the subject profile the identity provider reports after a
// completed login. Email or phone number may each be absent, never both for
// a usable login.
type Claims struct {
	Subject     string `json:"sub"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Picture     string `json:"picture"`
}

// Identifier returns the backend lookup identifier: email preferred, phone
// number as fallback. ok is false when the claims carry neither.
func (c Claims) Identifier() (value string, byEmail bool, ok bool) {
	if c.Email != "" {
		return c.Email, true, true
	}

	if c.PhoneNumber != "" {
		return c.PhoneNumber, false, true
	}

	return "", false, false
}

// Provider wraps the authorization-code flow against a hosted identity
// provider. The token exchange happens server-to-server; the access token
// never reaches the browser.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewProvider(domain, clientID, clientSecret, callbackURL string) *Provider {
	base := "https://" + domain

	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/authorize",
				TokenURL: base + "/oauth/token",
			},
		},
		userInfoURL: base + "/userinfo",
	}
}

// AuthURL returns the provider authorization URL for a login round trip.
// state is verified on callback against the server-side login-state store.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for the subject's profile claims.
func (p *Provider) Exchange(ctx context.Context, code string) (Claims, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Claims{}, fmt.Errorf("auth: exchanging code: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return Claims{}, fmt.Errorf("auth: fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Claims{}, fmt.Errorf("auth: userinfo returned status %d", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return Claims{}, fmt.Errorf("auth: decoding userinfo: %w", err)
	}

	if claims.Subject == "" {
		return Claims{}, errors.New("auth: userinfo carried no subject")
	}

	return claims, nil
}
