package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/pkg/session"
)

// Resolver adapts a CredentialStore to the token validator's account
// existence check.
type Resolver struct {
	storage CredentialStore
}

// NewResolver creates a resolver over the given store.
func NewResolver(storage CredentialStore) *Resolver {
	return &Resolver{storage: storage}
}

// ResolveAccount reports whether the token subject still names a live
// account. Missing and malformed subjects map to the validator's not-found
// error so deleted accounts lose access immediately.
func (r *Resolver) ResolveAccount(ctx context.Context, accountID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return session.ErrAccountNotFound
	}
	if _, err := r.storage.GetAccountByID(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return session.ErrAccountNotFound
		}
		return fmt.Errorf("failed to resolve account: %w", err)
	}
	return nil
}

var _ session.AccountResolver = (*Resolver)(nil)
