package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// LinkedinConfig holds configuration for the LinkedIn identity provider.
type LinkedinConfig struct {
	ClientID     string   `env:"LINKEDIN_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"LINKEDIN_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"LINKEDIN_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"LINKEDIN_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
}

type linkedinGateway struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewLinkedinGateway creates the LinkedIn identity provider gateway.
func NewLinkedinGateway(cfg LinkedinConfig) IdentityProviderGateway {
	return &linkedinGateway{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     linkedin.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *linkedinGateway) Provider() Provider {
	return ProviderLinkedin
}

// AuthURL builds the LinkedIn authorization URL with the given state token.
func (g *linkedinGateway) AuthURL(state string) (string, error) {
	return g.conf.AuthCodeURL(state), nil
}

// Exchange trades the authorization code for an access token and resolves
// the identity behind it.
func (g *linkedinGateway) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	return g.Validate(ctx, tok.AccessToken)
}

// Validate resolves the identity behind a LinkedIn access token via the
// OpenID Connect userinfo endpoint.
func (g *linkedinGateway) Validate(ctx context.Context, externalToken string) (ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.linkedin.com/v2/userinfo", nil)
	if err != nil {
		return ExternalIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+externalToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch linkedin userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ExternalIdentity{}, fmt.Errorf("linkedin userinfo returned status %d", resp.StatusCode)
	}

	var u struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ExternalIdentity{}, fmt.Errorf("decode linkedin userinfo: %w", err)
	}
	if u.Email == "" {
		return ExternalIdentity{}, fmt.Errorf("linkedin userinfo has no email")
	}

	return ExternalIdentity{Email: u.Email, Name: u.Name}, nil
}

var _ IdentityProviderGateway = (*linkedinGateway)(nil)
