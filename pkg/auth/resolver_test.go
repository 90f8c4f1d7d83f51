package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ideahub/ideahub/pkg/session"
)

func TestResolver_ResolveAccount(t *testing.T) {
	t.Parallel()

	t.Run("live account", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		storage := new(MockCredentialStore)
		storage.On("GetAccountByID", mock.Anything, id).Return(&Account{ID: id}, nil)

		err := NewResolver(storage).ResolveAccount(context.Background(), id.String())
		assert.NoError(t, err)
	})

	t.Run("deleted account", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		storage := new(MockCredentialStore)
		storage.On("GetAccountByID", mock.Anything, id).Return(nil, ErrUserNotFound)

		err := NewResolver(storage).ResolveAccount(context.Background(), id.String())
		assert.ErrorIs(t, err, session.ErrAccountNotFound)
	})

	t.Run("malformed subject", func(t *testing.T) {
		t.Parallel()

		err := NewResolver(new(MockCredentialStore)).ResolveAccount(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, session.ErrAccountNotFound)
	})
}
