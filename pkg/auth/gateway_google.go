package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds configuration for the Google identity provider.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile"`
}

type googleGateway struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGoogleGateway creates the Google identity provider gateway.
func NewGoogleGateway(cfg GoogleConfig) IdentityProviderGateway {
	return &googleGateway{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *googleGateway) Provider() Provider {
	return ProviderGoogle
}

// AuthURL builds the Google authorization URL with the given state token.
func (g *googleGateway) AuthURL(state string) (string, error) {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades the authorization code for an access token and resolves
// the identity behind it.
func (g *googleGateway) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	return g.Validate(ctx, tok.AccessToken)
}

// Validate resolves the identity behind a Google access token.
func (g *googleGateway) Validate(ctx context.Context, externalToken string) (ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return ExternalIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+externalToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ExternalIdentity{}, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var u struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ExternalIdentity{}, fmt.Errorf("decode google userinfo: %w", err)
	}
	if u.Email == "" {
		return ExternalIdentity{}, fmt.Errorf("google userinfo has no email")
	}

	return ExternalIdentity{Email: u.Email, Name: u.Name}, nil
}

var _ IdentityProviderGateway = (*googleGateway)(nil)
