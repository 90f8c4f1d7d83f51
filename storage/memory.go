package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/pkg/auth"
)

// MemoryStore is an in-memory implementation of auth.CredentialStore and
// auth.OAuthLinkStore, used in tests and for local development without a
// database. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*auth.Account
	byEmail  map[string]uuid.UUID
	links    map[linkKey]*auth.OAuthLink
}

type linkKey struct {
	provider auth.Provider
	email    string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*auth.Account),
		byEmail:  make(map[string]uuid.UUID),
		links:    make(map[linkKey]*auth.OAuthLink),
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, account *auth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[account.Email]; ok {
		return auth.ErrUserAlreadyExists
	}
	cp := *account
	s.accounts[account.ID] = &cp
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *MemoryStore) GetAccountByID(_ context.Context, id uuid.UUID) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *MemoryStore) GetAccountByEmail(_ context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return s.getLocked(id)
}

func (s *MemoryStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash []byte) error {
	return s.update(id, func(a *auth.Account) {
		a.PasswordHash = append([]byte(nil), hash...)
	})
}

func (s *MemoryStore) ResetLoginAttempts(_ context.Context, id uuid.UUID) error {
	return s.update(id, func(a *auth.Account) {
		a.LoginAttempts = 0
		a.BlockedUntil = nil
	})
}

func (s *MemoryStore) RecordFailedLogin(_ context.Context, id uuid.UUID, threshold int, blockFor time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return 0, auth.ErrUserNotFound
	}
	account.LoginAttempts++
	if account.LoginAttempts == threshold {
		until := time.Now().Add(blockFor)
		account.BlockedUntil = &until
	}
	return account.LoginAttempts, nil
}

func (s *MemoryStore) SetVerificationCode(_ context.Context, id uuid.UUID, code auth.VerificationCode) error {
	return s.update(id, func(a *auth.Account) {
		a.VerificationCode = &code
	})
}

func (s *MemoryStore) ClearVerificationCode(_ context.Context, id uuid.UUID) error {
	return s.update(id, func(a *auth.Account) {
		a.VerificationCode = nil
	})
}

func (s *MemoryStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	return s.update(id, func(a *auth.Account) {
		a.Verified = true
	})
}

func (s *MemoryStore) GetLink(_ context.Context, provider auth.Provider, externalEmail string) (*auth.OAuthLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[linkKey{provider, externalEmail}]
	if !ok {
		return nil, auth.ErrLinkNotFound
	}
	cp := *link
	return &cp, nil
}

func (s *MemoryStore) CreateLink(_ context.Context, link *auth.OAuthLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := linkKey{link.Provider, link.ExternalEmail}
	if _, ok := s.links[key]; ok {
		return auth.ErrProviderAlreadyLinked
	}
	cp := *link
	s.links[key] = &cp
	return nil
}

// getLocked returns a copy so callers cannot mutate stored state directly.
func (s *MemoryStore) getLocked(id uuid.UUID) (*auth.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *account
	if account.BlockedUntil != nil {
		until := *account.BlockedUntil
		cp.BlockedUntil = &until
	}
	if account.VerificationCode != nil {
		code := *account.VerificationCode
		cp.VerificationCode = &code
	}
	cp.PasswordHash = append([]byte(nil), account.PasswordHash...)
	return &cp, nil
}

func (s *MemoryStore) update(id uuid.UUID, fn func(*auth.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	fn(account)
	return nil
}

var (
	_ auth.CredentialStore = (*MemoryStore)(nil)
	_ auth.OAuthLinkStore  = (*MemoryStore)(nil)
)
