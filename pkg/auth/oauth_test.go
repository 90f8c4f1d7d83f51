package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLinker(t *testing.T, accounts *MockCredentialStore, links *MockOAuthLinkStore, states *MockStateStore, gateways ...IdentityProviderGateway) OAuthLinker {
	t.Helper()
	return NewOAuthLinker(accounts, links, states, newTestCodec(t), gateways)
}

func TestOAuthLinker_LinkProvider(t *testing.T) {
	t.Parallel()

	identity := ExternalIdentity{Email: "Ext@Example.com", Name: "Ext User"}

	t.Run("creates a new link", func(t *testing.T) {
		t.Parallel()

		accountID := uuid.New()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByID", mock.Anything, accountID).Return(&Account{ID: accountID}, nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderGoogle, "ext@example.com").Return(nil, ErrLinkNotFound)
		links.On("CreateLink", mock.Anything, mock.MatchedBy(func(l *OAuthLink) bool {
			return l.Provider == ProviderGoogle && l.ExternalEmail == "ext@example.com" && l.AccountID == accountID
		})).Return(nil)

		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		err := linker.LinkProvider(context.Background(), accountID, ProviderGoogle, "ext-token")
		require.NoError(t, err)
		links.AssertExpectations(t)
	})

	t.Run("invalid external token", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "bad-token").Return(ExternalIdentity{}, assert.AnError)

		accounts := new(MockCredentialStore)
		links := new(MockOAuthLinkStore)
		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		err := linker.LinkProvider(context.Background(), uuid.New(), ProviderGoogle, "bad-token")
		assert.ErrorIs(t, err, ErrInvalidExternalToken)
		assert.NotErrorIs(t, err, ErrUserNotFound)
		accounts.AssertNotCalled(t, "GetAccountByID", mock.Anything, mock.Anything)
	})

	t.Run("missing account", func(t *testing.T) {
		t.Parallel()

		accountID := uuid.New()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByID", mock.Anything, accountID).Return(nil, ErrUserNotFound)

		linker := newTestLinker(t, accounts, new(MockOAuthLinkStore), new(MockStateStore), gw)

		err := linker.LinkProvider(context.Background(), accountID, ProviderGoogle, "ext-token")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("second link attempt fails even for the same account", func(t *testing.T) {
		t.Parallel()

		accountID := uuid.New()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByID", mock.Anything, accountID).Return(&Account{ID: accountID}, nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderGoogle, "ext@example.com").Return(&OAuthLink{
			Provider:      ProviderGoogle,
			ExternalEmail: "ext@example.com",
			AccountID:     accountID,
		}, nil)

		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		err := linker.LinkProvider(context.Background(), accountID, ProviderGoogle, "ext-token")
		assert.ErrorIs(t, err, ErrProviderAlreadyLinked)
		links.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		linker := newTestLinker(t, new(MockCredentialStore), new(MockOAuthLinkStore), new(MockStateStore))

		err := linker.LinkProvider(context.Background(), uuid.New(), ProviderGithub, "ext-token")
		assert.ErrorIs(t, err, ErrUnsupportedProvider)
	})
}

func TestOAuthLinker_SocialLogin(t *testing.T) {
	t.Parallel()

	identity := ExternalIdentity{Email: "ext@example.com", Name: "Ext User"}

	t.Run("existing link signs its account in", func(t *testing.T) {
		t.Parallel()

		account := &Account{ID: uuid.New(), Email: "ext@example.com", ProfileID: uuid.New(), Verified: true}

		gw := &MockGateway{provider: ProviderGithub}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByID", mock.Anything, account.ID).Return(account, nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderGithub, "ext@example.com").Return(&OAuthLink{
			Provider:      ProviderGithub,
			ExternalEmail: "ext@example.com",
			AccountID:     account.ID,
		}, nil)

		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		result, err := linker.SocialLogin(context.Background(), ProviderGithub, "ext-token", "10.0.0.4")
		require.NoError(t, err)
		assert.Equal(t, account.ID, result.Account.ID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("existing password account gets linked", func(t *testing.T) {
		t.Parallel()

		account := &Account{ID: uuid.New(), Email: "ext@example.com"}

		gw := &MockGateway{provider: ProviderLinkedin}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByEmail", mock.Anything, "ext@example.com").Return(account, nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderLinkedin, "ext@example.com").Return(nil, ErrLinkNotFound)
		links.On("CreateLink", mock.Anything, mock.MatchedBy(func(l *OAuthLink) bool {
			return l.AccountID == account.ID && l.Provider == ProviderLinkedin
		})).Return(nil)

		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		result, err := linker.SocialLogin(context.Background(), ProviderLinkedin, "ext-token", "")
		require.NoError(t, err)
		assert.Equal(t, account.ID, result.Account.ID)
		links.AssertExpectations(t)
	})

	t.Run("first contact provisions a verified account", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "ext-token").Return(identity, nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByEmail", mock.Anything, "ext@example.com").Return(nil, ErrUserNotFound)
		accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.Email == "ext@example.com" && a.Verified && len(a.PasswordHash) > 0
		})).Return(nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderGoogle, "ext@example.com").Return(nil, ErrLinkNotFound)
		links.On("CreateLink", mock.Anything, mock.Anything).Return(nil)

		linker := newTestLinker(t, accounts, links, new(MockStateStore), gw)

		result, err := linker.SocialLogin(context.Background(), ProviderGoogle, "ext-token", "")
		require.NoError(t, err)
		assert.True(t, result.Account.Verified)
		accounts.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Validate", mock.Anything, "bad").Return(ExternalIdentity{}, assert.AnError)

		linker := newTestLinker(t, new(MockCredentialStore), new(MockOAuthLinkStore), new(MockStateStore), gw)

		_, err := linker.SocialLogin(context.Background(), ProviderGoogle, "bad", "")
		assert.ErrorIs(t, err, ErrInvalidExternalToken)
	})
}

func TestOAuthLinker_RedirectFlow(t *testing.T) {
	t.Parallel()

	t.Run("auth url stores a one-time state", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("AuthURL", mock.AnythingOfType("string")).Return("https://provider.example/authorize?state=x", nil)

		states := new(MockStateStore)
		states.On("StoreState", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

		linker := newTestLinker(t, new(MockCredentialStore), new(MockOAuthLinkStore), states, gw)

		url, err := linker.AuthURL(context.Background(), ProviderGoogle)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
		states.AssertExpectations(t)
	})

	t.Run("callback consumes the state before exchanging", func(t *testing.T) {
		t.Parallel()

		identity := ExternalIdentity{Email: "ext@example.com"}
		account := &Account{ID: uuid.New(), Email: "ext@example.com", Verified: true}

		gw := &MockGateway{provider: ProviderGoogle}
		gw.On("Exchange", mock.Anything, "auth-code").Return(identity, nil)

		states := new(MockStateStore)
		states.On("ConsumeState", mock.Anything, "state-1").Return(nil)

		accounts := new(MockCredentialStore)
		accounts.On("GetAccountByID", mock.Anything, account.ID).Return(account, nil)

		links := new(MockOAuthLinkStore)
		links.On("GetLink", mock.Anything, ProviderGoogle, "ext@example.com").Return(&OAuthLink{
			Provider:      ProviderGoogle,
			ExternalEmail: "ext@example.com",
			AccountID:     account.ID,
		}, nil)

		linker := newTestLinker(t, accounts, links, states, gw)

		result, err := linker.HandleCallback(context.Background(), ProviderGoogle, "state-1", "auth-code", "")
		require.NoError(t, err)
		assert.Equal(t, account.ID, result.Account.ID)
	})

	t.Run("replayed state is rejected", func(t *testing.T) {
		t.Parallel()

		gw := &MockGateway{provider: ProviderGoogle}

		states := new(MockStateStore)
		states.On("ConsumeState", mock.Anything, "used-state").Return(assert.AnError)

		linker := newTestLinker(t, new(MockCredentialStore), new(MockOAuthLinkStore), states, gw)

		_, err := linker.HandleCallback(context.Background(), ProviderGoogle, "used-state", "auth-code", "")
		assert.ErrorIs(t, err, ErrInvalidExternalToken)
		gw.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
	})
}

func TestParseProvider(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"google", "github", "linkedin"} {
		p, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, Provider(name), p)
	}

	_, err := ParseProvider("facebook")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
