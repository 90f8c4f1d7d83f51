package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideahub/ideahub/pkg/logger"
	"github.com/ideahub/ideahub/pkg/sanitizer"
	"github.com/ideahub/ideahub/pkg/session"
)

// IdentityProviderGateway abstracts one external identity provider.
// AuthURL and Exchange serve the browser redirect flow; Validate resolves a
// provider-issued access token handed in directly by an API client.
type IdentityProviderGateway interface {
	Provider() Provider
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
	Validate(ctx context.Context, externalToken string) (ExternalIdentity, error)
}

// StateStore persists one-time CSRF state tokens for the redirect flow.
// ConsumeState removes the token atomically and fails if it was never
// stored or was already consumed.
type StateStore interface {
	StoreState(ctx context.Context, state string, ttl time.Duration) error
	ConsumeState(ctx context.Context, state string) error
}

// OAuthLinker drives social signin and provider linking.
type OAuthLinker interface {
	AuthURL(ctx context.Context, provider Provider) (string, error)
	HandleCallback(ctx context.Context, provider Provider, state, code, ip string) (*SigninResult, error)
	SocialLogin(ctx context.Context, provider Provider, externalToken, ip string) (*SigninResult, error)
	LinkProvider(ctx context.Context, accountID uuid.UUID, provider Provider, externalToken string) error
}

type oauthLinker struct {
	accounts CredentialStore
	links    OAuthLinkStore
	states   StateStore
	gateways map[Provider]IdentityProviderGateway
	codec    *session.Codec
	stateTTL time.Duration
	logger   *slog.Logger
}

// LinkerOption configures the OAuth linker during construction.
type LinkerOption func(*oauthLinker)

// WithLinkerLogger sets a custom logger for the linker.
func WithLinkerLogger(l *slog.Logger) LinkerOption {
	return func(s *oauthLinker) {
		s.logger = l
	}
}

// WithStateTTL overrides the lifetime of redirect-flow state tokens.
func WithStateTTL(ttl time.Duration) LinkerOption {
	return func(s *oauthLinker) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// NewOAuthLinker creates the linker over the given provider gateways.
// Default state lifetime is 10 minutes.
func NewOAuthLinker(accounts CredentialStore, links OAuthLinkStore, states StateStore, codec *session.Codec, gateways []IdentityProviderGateway, opts ...LinkerOption) OAuthLinker {
	s := &oauthLinker{
		accounts: accounts,
		links:    links,
		states:   states,
		gateways: make(map[Provider]IdentityProviderGateway, len(gateways)),
		codec:    codec,
		stateTTL: 10 * time.Minute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, gw := range gateways {
		s.gateways[gw.Provider()] = gw
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL mints a one-time state token and returns the provider's
// authorization URL carrying it.
func (s *oauthLinker) AuthURL(ctx context.Context, provider Provider) (string, error) {
	gw, err := s.gateway(provider)
	if err != nil {
		return "", err
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.states.StoreState(ctx, state, s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return gw.AuthURL(state)
}

// HandleCallback completes the redirect flow: the state token is consumed
// first, then the authorization code is exchanged for an identity.
func (s *oauthLinker) HandleCallback(ctx context.Context, provider Provider, state, code, ip string) (*SigninResult, error) {
	gw, err := s.gateway(provider)
	if err != nil {
		return nil, err
	}

	if err := s.states.ConsumeState(ctx, state); err != nil {
		return nil, errors.Join(ErrInvalidExternalToken, err)
	}

	identity, err := gw.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrInvalidExternalToken, err)
	}

	return s.signinExternal(ctx, provider, identity, ip)
}

// SocialLogin validates a provider access token supplied directly by the
// client and signs the linked account in, creating account and link on
// first contact.
func (s *oauthLinker) SocialLogin(ctx context.Context, provider Provider, externalToken, ip string) (*SigninResult, error) {
	gw, err := s.gateway(provider)
	if err != nil {
		return nil, err
	}

	identity, err := gw.Validate(ctx, externalToken)
	if err != nil {
		return nil, errors.Join(ErrInvalidExternalToken, err)
	}

	return s.signinExternal(ctx, provider, identity, ip)
}

// LinkProvider attaches an external identity to an existing account.
// The (provider, external email) pair is linked at most once system-wide:
// a second link attempt fails even when it targets the same account.
func (s *oauthLinker) LinkProvider(ctx context.Context, accountID uuid.UUID, provider Provider, externalToken string) error {
	gw, err := s.gateway(provider)
	if err != nil {
		return err
	}

	identity, err := gw.Validate(ctx, externalToken)
	if err != nil {
		return errors.Join(ErrInvalidExternalToken, err)
	}
	externalEmail := sanitizer.NormalizeEmail(identity.Email)

	if _, err := s.accounts.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	if _, err := s.links.GetLink(ctx, provider, externalEmail); err == nil {
		return ErrProviderAlreadyLinked
	} else if !errors.Is(err, ErrLinkNotFound) {
		return fmt.Errorf("failed to look up link: %w", err)
	}

	link := &OAuthLink{
		Provider:      provider,
		ExternalEmail: externalEmail,
		AccountID:     accountID,
		CreatedAt:     time.Now(),
	}
	if err := s.links.CreateLink(ctx, link); err != nil {
		if errors.Is(err, ErrProviderAlreadyLinked) {
			return ErrProviderAlreadyLinked
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	s.logger.InfoContext(ctx, "provider linked",
		logger.UserID(accountID.String()),
		logger.Provider(string(provider)),
		logger.Component("oauth"),
	)

	return nil
}

// signinExternal resolves a validated identity to an account, creating the
// account and the link when neither exists yet, and mints a session token.
func (s *oauthLinker) signinExternal(ctx context.Context, provider Provider, identity ExternalIdentity, ip string) (*SigninResult, error) {
	externalEmail := sanitizer.NormalizeEmail(identity.Email)

	link, err := s.links.GetLink(ctx, provider, externalEmail)
	switch {
	case err == nil:
		account, err := s.accounts.GetAccountByID(ctx, link.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to get linked account: %w", err)
		}
		return s.finishSignin(ctx, account, ip)
	case errors.Is(err, ErrLinkNotFound):
		// first contact for this identity, fall through
	default:
		return nil, fmt.Errorf("failed to look up link: %w", err)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, externalEmail)
	switch {
	case err == nil:
		// existing password account with the same email; attach the identity
	case errors.Is(err, ErrUserNotFound):
		account, err = s.createExternalAccount(ctx, externalEmail)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	link = &OAuthLink{
		Provider:      provider,
		ExternalEmail: externalEmail,
		AccountID:     account.ID,
		CreatedAt:     time.Now(),
	}
	if err := s.links.CreateLink(ctx, link); err != nil && !errors.Is(err, ErrProviderAlreadyLinked) {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return s.finishSignin(ctx, account, ip)
}

func (s *oauthLinker) finishSignin(ctx context.Context, account *Account, ip string) (*SigninResult, error) {
	token, err := issueSessionToken(s.codec, account, ip)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "social signin",
		logger.UserID(account.ID.String()),
		logger.Email(sanitizer.MaskEmail(account.Email)),
		logger.Component("oauth"),
	)

	return &SigninResult{Token: token, Account: account}, nil
}

// createExternalAccount provisions a verified account for an identity that
// arrived through a provider. The password hash is random so the account
// cannot be entered through the password flow until one is set explicitly.
func (s *oauthLinker) createExternalAccount(ctx context.Context, email string) (*Account, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		ProfileID:    uuid.New(),
		Verified:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *oauthLinker) gateway(provider Provider) (IdentityProviderGateway, error) {
	gw, ok := s.gateways[provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return gw, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

var _ OAuthLinker = (*oauthLinker)(nil)
