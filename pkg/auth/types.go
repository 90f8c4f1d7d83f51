package auth

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies an external identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderGithub   Provider = "github"
	ProviderLinkedin Provider = "linkedin"
)

// ParseProvider validates a provider name from a request path.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderGithub, ProviderLinkedin:
		return Provider(s), nil
	default:
		return "", ErrUnsupportedProvider
	}
}

// VerificationCode is a short-lived recovery code bound to an account.
// An account holds at most one; a new issuance overwrites the previous one
// together with its timestamp.
type VerificationCode struct {
	Value    string
	IssuedAt time.Time
}

// Account is a user record as seen by this core. Emails are stored
// normalized (lower-case), so lookups are case-insensitive.
type Account struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     []byte
	ProfileID        uuid.UUID
	Verified         bool
	LoginAttempts    int
	BlockedUntil     *time.Time
	VerificationCode *VerificationCode
	CreatedAt        time.Time
}

// Blocked reports whether the account is inside an active lockout window.
func (a *Account) Blocked(now time.Time) bool {
	return a.BlockedUntil != nil && now.Before(*a.BlockedUntil)
}

// OAuthLink associates an account with one external identity.
// The (Provider, ExternalEmail) pair is unique across the whole system.
type OAuthLink struct {
	Provider      Provider
	ExternalEmail string
	AccountID     uuid.UUID
	CreatedAt     time.Time
}

// ExternalIdentity is a provider-validated identity assertion.
type ExternalIdentity struct {
	Email string
	Name  string
}

// SigninResult carries a freshly minted session token and the account it
// belongs to.
type SigninResult struct {
	Token   string
	Account *Account
}

// ChangePasswordRoute is the endpoint limited-capability recovery tokens
// are scoped to.
const ChangePasswordRoute = "/auth/change-password"
