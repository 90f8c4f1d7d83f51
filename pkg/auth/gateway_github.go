package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GithubConfig holds configuration for the GitHub identity provider.
type GithubConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"user:email"`
}

type githubGateway struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGithubGateway creates the GitHub identity provider gateway.
func NewGithubGateway(cfg GithubConfig) IdentityProviderGateway {
	return &githubGateway{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *githubGateway) Provider() Provider {
	return ProviderGithub
}

// AuthURL builds the GitHub authorization URL with the given state token.
func (g *githubGateway) AuthURL(state string) (string, error) {
	return g.conf.AuthCodeURL(state), nil
}

// Exchange trades the authorization code for an access token and resolves
// the identity behind it.
func (g *githubGateway) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	return g.Validate(ctx, tok.AccessToken)
}

// Validate resolves the identity behind a GitHub access token. The profile
// email field is often unset, so the emails endpoint is the source of truth
// and only verified addresses are accepted, preferring the primary one.
func (g *githubGateway) Validate(ctx context.Context, externalToken string) (ExternalIdentity, error) {
	var user struct {
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := g.getJSON(ctx, "https://api.github.com/user", externalToken, &user); err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch github user: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.getJSON(ctx, "https://api.github.com/user/emails", externalToken, &emails); err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch github emails: %w", err)
	}

	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		for _, e := range emails {
			if e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return ExternalIdentity{}, fmt.Errorf("github account has no verified email")
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return ExternalIdentity{Email: email, Name: name}, nil
}

func (g *githubGateway) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ IdentityProviderGateway = (*githubGateway)(nil)
