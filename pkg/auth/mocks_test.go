package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ideahub/ideahub/pkg/email"
)

// MockCredentialStore is a mock implementation of CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) CreateAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCredentialStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockCredentialStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockCredentialStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockCredentialStore) ResetLoginAttempts(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCredentialStore) RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, blockFor time.Duration) (int, error) {
	args := m.Called(ctx, id, threshold, blockFor)
	return args.Int(0), args.Error(1)
}

func (m *MockCredentialStore) SetVerificationCode(ctx context.Context, id uuid.UUID, code VerificationCode) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockCredentialStore) ClearVerificationCode(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCredentialStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOAuthLinkStore is a mock implementation of OAuthLinkStore.
type MockOAuthLinkStore struct {
	mock.Mock
}

func (m *MockOAuthLinkStore) GetLink(ctx context.Context, provider Provider, externalEmail string) (*OAuthLink, error) {
	args := m.Called(ctx, provider, externalEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OAuthLink), args.Error(1)
}

func (m *MockOAuthLinkStore) CreateLink(ctx context.Context, link *OAuthLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

// MockStateStore is a mock implementation of StateStore.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	args := m.Called(ctx, state, ttl)
	return args.Error(0)
}

func (m *MockStateStore) ConsumeState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// MockGateway is a mock implementation of IdentityProviderGateway.
type MockGateway struct {
	mock.Mock

	provider Provider
}

func (m *MockGateway) Provider() Provider {
	return m.provider
}

func (m *MockGateway) AuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ExternalIdentity), args.Error(1)
}

func (m *MockGateway) Validate(ctx context.Context, externalToken string) (ExternalIdentity, error) {
	args := m.Called(ctx, externalToken)
	return args.Get(0).(ExternalIdentity), args.Error(1)
}
