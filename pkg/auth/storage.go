package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialStore persists user records. Implementations return
// ErrUserNotFound for missing accounts and ErrUserAlreadyExists for email
// collisions on create.
type CredentialStore interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
	ResetLoginAttempts(ctx context.Context, id uuid.UUID) error

	// RecordFailedLogin atomically increments the attempt counter and,
	// when the incremented value equals threshold, stamps the lockout
	// deadline (now + blockFor) in the same update. It returns the new
	// counter value. The conditional single-statement update closes the
	// race window two concurrent signins would have on a plain
	// read-modify-write counter.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, blockFor time.Duration) (int, error)

	SetVerificationCode(ctx context.Context, id uuid.UUID, code VerificationCode) error
	ClearVerificationCode(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// OAuthLinkStore persists external identity links. GetLink returns
// ErrLinkNotFound when no link exists for the pair; CreateLink returns
// ErrProviderAlreadyLinked when the unique (provider, external email)
// constraint is violated.
type OAuthLinkStore interface {
	GetLink(ctx context.Context, provider Provider, externalEmail string) (*OAuthLink, error)
	CreateLink(ctx context.Context, link *OAuthLink) error
}
